// Package reports builds filtered work reports from the document store.
// A report walks groups in document order, projects alphabetically, and
// timed entries in date order, with totals at every level.
package reports

// Filter narrows a report. Zero-valued fields do not filter. Date bounds
// are inclusive and compared lexicographically, which works because dates
// are zero-padded YYYY-MM-DD strings.
type Filter struct {
	Group    string `json:"group,omitempty"`
	Project  string `json:"project,omitempty"`
	Tag      string `json:"tag,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

// IsZero reports whether the filter lets everything through.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// WorkReport is a full report over the document.
type WorkReport struct {
	GeneratedOn string        `json:"generated_on"`
	Filter      Filter        `json:"filter"`
	Groups      []GroupReport `json:"groups"`
	TotalHours  float64       `json:"total_hours"`
}

// GroupReport holds the matching projects of one group. Groups with no
// matching entries are left out of the report entirely.
type GroupReport struct {
	Name       string          `json:"name"`
	Projects   []ProjectReport `json:"projects"`
	TotalHours float64         `json:"total_hours"`
}

// ProjectReport holds the matching entries of one project.
type ProjectReport struct {
	Name       string     `json:"name"`
	Tags       []string   `json:"tags"`
	Entries    []LogEntry `json:"entries"`
	TotalHours float64    `json:"total_hours"`
}

// LogEntry is a single timed entry as it appears in a report.
type LogEntry struct {
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
}
