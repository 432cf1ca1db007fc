package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*
var templateFS embed.FS

// Presentation renders the embedded HTML templates.
type Presentation struct {
	tmpl *template.Template
}

// NewPresentation parses the embedded templates once at startup.
func NewPresentation() (*Presentation, error) {
	tmpl, err := template.New("worklog").ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Presentation{tmpl: tmpl}, nil
}

func (p *Presentation) RenderDashboard(w io.Writer, view DashboardView) error {
	return p.tmpl.ExecuteTemplate(w, "dashboard.html", view)
}

func (p *Presentation) RenderReport(w io.Writer, view ReportPageView) error {
	return p.tmpl.ExecuteTemplate(w, "report.html", view)
}
