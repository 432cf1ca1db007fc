package storage

import "strings"

// ============================================================================
// Projects
// ============================================================================

// AddProject creates a new project. A blank group lands it in the default
// group; an unknown group is created. Tags are trimmed and deduplicated.
func (s *Storage) AddProject(name, group string, tags []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validationf("project name cannot be empty")
	}
	if len(name) > maxNameLen {
		return Validationf("project name exceeds %d characters", maxNameLen)
	}

	doc, _ := s.Load()
	if _, exists := doc.Projects[name]; exists {
		return Conflictf("project already exists: %s", name)
	}

	group = strings.TrimSpace(group)
	if group == "" {
		group = DefaultGroup
	}
	if len(group) > maxNameLen {
		return Validationf("group name exceeds %d characters", maxNameLen)
	}
	doc.EnsureGroup(group)

	p := newProjectShell()
	p.Group = group
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || p.HasTag(tag) {
			continue
		}
		if len(tag) > maxTagLen {
			return Validationf("tag exceeds %d characters", maxTagLen)
		}
		p.Tags = append(p.Tags, tag)
	}
	doc.Projects[name] = p

	return s.saveWith(doc, SaveContext{Operation: "add project", Project: name, Detail: group})
}

// DeleteProject removes a project and all its data.
func (s *Storage) DeleteProject(name string) error {
	name = strings.TrimSpace(name)
	doc, _ := s.Load()
	if _, exists := doc.Projects[name]; !exists {
		return NotFoundf("project not found: %s", name)
	}
	delete(doc.Projects, name)
	return s.saveWith(doc, SaveContext{Operation: "delete project", Project: name})
}

// MoveProject reassigns a project to another group, creating the group when
// it does not exist yet. A blank group means the default group.
func (s *Storage) MoveProject(name, group string) error {
	name = strings.TrimSpace(name)
	doc, _ := s.Load()
	p, exists := doc.Projects[name]
	if !exists {
		return NotFoundf("project not found: %s", name)
	}

	group = strings.TrimSpace(group)
	if group == "" {
		group = DefaultGroup
	}
	if len(group) > maxNameLen {
		return Validationf("group name exceeds %d characters", maxNameLen)
	}
	doc.EnsureGroup(group)
	p.Group = group

	return s.saveWith(doc, SaveContext{Operation: "move project", Project: name, Detail: group})
}

// ============================================================================
// Tags
// ============================================================================

// AddTag attaches a tag to a project. Adding an existing tag is a no-op.
func (s *Storage) AddTag(project, tag string) error {
	project = strings.TrimSpace(project)
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Validationf("tag cannot be empty")
	}
	if len(tag) > maxTagLen {
		return Validationf("tag exceeds %d characters", maxTagLen)
	}

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}
	if p.HasTag(tag) {
		return nil
	}
	p.Tags = append(p.Tags, tag)

	return s.saveWith(doc, SaveContext{Operation: "tag project", Project: project, Detail: tag})
}

// RemoveTag detaches a tag from a project. Removing an absent tag is a
// no-op.
func (s *Storage) RemoveTag(project, tag string) error {
	project = strings.TrimSpace(project)
	tag = strings.TrimSpace(tag)

	doc, _ := s.Load()
	p, exists := doc.Projects[project]
	if !exists {
		return NotFoundf("project not found: %s", project)
	}

	kept := p.Tags[:0]
	for _, t := range p.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(p.Tags) {
		return nil
	}
	p.Tags = kept

	return s.saveWith(doc, SaveContext{Operation: "untag project", Project: project, Detail: tag})
}

// ============================================================================
// Groups
// ============================================================================

// AddGroup appends a new group to the document order.
func (s *Storage) AddGroup(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validationf("group name cannot be empty")
	}
	if len(name) > maxNameLen {
		return Validationf("group name exceeds %d characters", maxNameLen)
	}

	doc, _ := s.Load()
	if doc.HasGroup(name) {
		return Conflictf("group already exists: %s", name)
	}
	doc.Groups = append(doc.Groups, name)

	return s.saveWith(doc, SaveContext{Operation: "add group", Detail: name})
}

// RenameGroup renames a group in place, keeping its position in the display
// order. Member projects follow. The default group cannot be renamed.
func (s *Storage) RenameGroup(oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == DefaultGroup {
		return Validationf("the default group cannot be renamed")
	}
	if newName == "" {
		return Validationf("group name cannot be empty")
	}
	if len(newName) > maxNameLen {
		return Validationf("group name exceeds %d characters", maxNameLen)
	}
	if newName == oldName {
		return nil
	}

	doc, _ := s.Load()
	if !doc.HasGroup(oldName) {
		return NotFoundf("group not found: %s", oldName)
	}
	if doc.HasGroup(newName) {
		return Conflictf("group already exists: %s", newName)
	}

	for i, g := range doc.Groups {
		if g == oldName {
			doc.Groups[i] = newName
		}
	}
	for _, p := range doc.Projects {
		if p.Group == oldName {
			p.Group = newName
		}
	}

	return s.saveWith(doc, SaveContext{Operation: "rename group", Detail: oldName + " to " + newName})
}

// DeleteGroup removes a group and reassigns its member projects to the
// default group. The default group cannot be deleted.
func (s *Storage) DeleteGroup(name string) error {
	name = strings.TrimSpace(name)
	if name == DefaultGroup {
		return Validationf("the default group cannot be deleted")
	}

	doc, _ := s.Load()
	if !doc.HasGroup(name) {
		return NotFoundf("group not found: %s", name)
	}

	kept := doc.Groups[:0]
	for _, g := range doc.Groups {
		if g != name {
			kept = append(kept, g)
		}
	}
	doc.Groups = kept
	for _, p := range doc.Projects {
		if p.Group == name {
			p.Group = DefaultGroup
		}
	}

	return s.saveWith(doc, SaveContext{Operation: "delete group", Detail: name})
}
