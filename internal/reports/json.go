package reports

import "encoding/json"

// FormatJSON formats a report as indented JSON.
func FormatJSON(rep *WorkReport) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}
