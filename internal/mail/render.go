package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var timelineLabels = map[string]string{
	"asap":     "ASAP",
	"1-2":      "1-2 months",
	"3-4":      "3-4 months",
	"5-6":      "5-6 months",
	"6+":       "6+ months",
	"flexible": "Flexible",
}

// TimelineLabel maps a timeline option to its display label, falling back to the raw value.
func TimelineLabel(value string) string {
	if label, ok := timelineLabels[value]; ok {
		return label
	}
	return value
}

type view struct {
	Heading    string
	LogoURL    string
	StampLabel string
	Stamp      string
	Record     domain.Submission
}

// Renderer turns submissions into notification emails.
type Renderer struct {
	tmpl    *template.Template
	logoURL string
	now     func() time.Time
}

// NewRenderer parses the embedded templates.
func NewRenderer(logoURL string) (*Renderer, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"pair":     func(a, b any) []any { return []any{a, b} },
		"timeline": TimelineLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, logoURL: logoURL, now: time.Now}, nil
}

// NewSubmission renders the staff notification for a freshly persisted submission.
func (r *Renderer) NewSubmission(sub domain.Submission) (Message, error) {
	var subject, heading string
	switch s := sub.(type) {
	case *domain.Contact:
		subject, heading = "New Contact Form Submission - Callback Request", "New Contact Form Submission"
	case *domain.Project:
		subject, heading = "New Project Inquiry - "+s.Name, "New Project Inquiry Submission"
	case *domain.Career:
		subject, heading = "New Career Application - "+s.Name, "New Career Application"
		if s.Position != "" {
			subject += " (" + s.Position + ")"
		}
	default:
		return Message{}, fmt.Errorf("unsupported submission %T", sub)
	}
	return r.render(string(sub.SubmissionKind())+"_created", subject, view{
		Heading:    heading,
		StampLabel: "Submitted at",
		Record:     sub,
	})
}

// LeadUpdate renders the admin-triggered lead summary with current status and notes.
func (r *Renderer) LeadUpdate(sub domain.Submission) (Message, error) {
	var label string
	switch sub.(type) {
	case *domain.Contact:
		label = "Contact Request"
	case *domain.Project:
		label = "Project Inquiry"
	case *domain.Career:
		label = "Career Application"
	default:
		return Message{}, fmt.Errorf("unsupported submission %T", sub)
	}
	return r.render(string(sub.SubmissionKind())+"_update", "Lead Update - "+label+": "+sub.SubmitterName(), view{
		Heading:    "Lead Update - " + label,
		StampLabel: "Updated at",
		Record:     sub,
	})
}

func (r *Renderer) render(name, subject string, v view) (Message, error) {
	v.LogoURL = r.logoURL
	v.Stamp = r.now().Format("Jan 2, 2006 3:04 PM MST")

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, v); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{Subject: subject, HTML: buf.String()}, nil
}
