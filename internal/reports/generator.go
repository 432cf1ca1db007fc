// Package reports builds filtered work reports from the document store.
package reports

import (
	"math"
	"sort"
	"strings"

	"worklog/internal/storage"
)

// Generator creates reports from storage data.
type Generator struct {
	store *storage.Storage
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Storage) *Generator {
	return &Generator{store: store}
}

// Generate builds a report for the current document state. Corrupt storage
// degrades to an empty document, so generation itself cannot fail.
func (g *Generator) Generate(filter Filter) *WorkReport {
	doc, _ := g.store.Load()
	return BuildReport(doc, filter, g.store.Today())
}

// BuildReport assembles a report from a document. Groups keep their
// document order; projects within a group sort alphabetically without case;
// entries within a project sort by date, then start time.
//
// Totals at every level are computed from the unrounded durations and
// rounded once for display. The displayed project figures therefore do not
// always add up to the displayed group figure to the last cent of an hour;
// each figure is the best rounding of its own exact sum.
func BuildReport(doc *storage.Document, filter Filter, generatedOn string) *WorkReport {
	rep := &WorkReport{
		GeneratedOn: generatedOn,
		Filter:      filter,
		Groups:      []GroupReport{},
	}

	byGroup := make(map[string][]string)
	for name, p := range doc.Projects {
		g := doc.ResolvedGroup(p)
		byGroup[g] = append(byGroup[g], name)
	}

	var grand float64
	for _, group := range doc.Groups {
		if filter.Group != "" && group != filter.Group {
			continue
		}

		names := byGroup[group]
		sort.SliceStable(names, func(i, j int) bool {
			return strings.ToLower(names[i]) < strings.ToLower(names[j])
		})

		gr := GroupReport{Name: group, Projects: []ProjectReport{}}
		var groupSum float64
		for _, name := range names {
			p := doc.Projects[name]
			if filter.Project != "" && name != filter.Project {
				continue
			}
			// A tag filter drops projects without the tag outright, logs
			// and all.
			if filter.Tag != "" && !p.HasTag(filter.Tag) {
				continue
			}

			entries, sum := collectEntries(p, filter)
			if len(entries) == 0 {
				continue
			}

			gr.Projects = append(gr.Projects, ProjectReport{
				Name:       name,
				Tags:       p.Tags,
				Entries:    entries,
				TotalHours: round2(sum),
			})
			groupSum += sum
		}

		if len(gr.Projects) == 0 {
			continue
		}
		gr.TotalHours = round2(groupSum)
		rep.Groups = append(rep.Groups, gr)
		grand += groupSum
	}

	rep.TotalHours = round2(grand)
	return rep
}

func collectEntries(p *storage.Project, filter Filter) ([]LogEntry, float64) {
	entries := make([]LogEntry, 0, len(p.TimeLogs))
	var sum float64
	for _, tl := range p.TimeLogs {
		if filter.DateFrom != "" && tl.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && tl.Date > filter.DateTo {
			continue
		}
		entries = append(entries, LogEntry{
			Date:      tl.Date,
			StartTime: tl.StartTime,
			EndTime:   tl.EndTime,
			Hours:     tl.Duration,
		})
		sum += tl.Duration
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries, sum
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
