package reports

import (
	"fmt"
	"strings"
)

// FormatMarkdown renders a report as markdown, one line per entry.
func FormatMarkdown(rep *WorkReport) string {
	var b strings.Builder

	b.WriteString("# Work Report\n\n")
	fmt.Fprintf(&b, "Generated on %s\n", rep.GeneratedOn)
	if !rep.Filter.IsZero() {
		fmt.Fprintf(&b, "Filter: %s\n", describeFilter(rep.Filter))
	}

	if len(rep.Groups) == 0 {
		b.WriteString("\nNo entries.\n")
		return b.String()
	}

	for _, group := range rep.Groups {
		fmt.Fprintf(&b, "\n## %s (%.2fh)\n", group.Name, group.TotalHours)
		for _, project := range group.Projects {
			b.WriteString("\n### " + project.Name)
			if len(project.Tags) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(project.Tags, ", "))
			}
			fmt.Fprintf(&b, " (%.2fh)\n\n", project.TotalHours)
			for _, e := range project.Entries {
				fmt.Fprintf(&b, "- %s %s - %s: %.2fh\n", e.Date, e.StartTime, e.EndTime, e.Hours)
			}
		}
	}

	fmt.Fprintf(&b, "\nTotal: %.2fh\n", rep.TotalHours)
	return b.String()
}

func describeFilter(f Filter) string {
	var parts []string
	if f.Group != "" {
		parts = append(parts, "group="+f.Group)
	}
	if f.Project != "" {
		parts = append(parts, "project="+f.Project)
	}
	if f.Tag != "" {
		parts = append(parts, "tag="+f.Tag)
	}
	if f.DateFrom != "" {
		parts = append(parts, "from="+f.DateFrom)
	}
	if f.DateTo != "" {
		parts = append(parts, "to="+f.DateTo)
	}
	return strings.Join(parts, " ")
}
