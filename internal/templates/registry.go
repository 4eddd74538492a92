// Package templates holds the clinic's per-type SMS texts, email subjects and
// email HTML fragments.
package templates

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/franzego/maybunga-notifications/internal/models"
)

const ClinicName = "Maybunga Health Center"

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Template is the rendered-text source for one notification type. Empty fields
// mean the channel has no fixed text for that type. ActionLabel adds a button
// linking to vars["actionUrl"] when that variable is set.
type Template struct {
	SMS          string
	EmailSubject string
	EmailBody    string
	ActionLabel  string
}

const actionButton = `<p style="text-align:center;"><a href="%s" style="background:#2c5aa0;color:#ffffff;padding:12px 24px;border-radius:4px;text-decoration:none;">%s</a></p>`

// Registry maps notification types to their templates.
type Registry struct {
	templates map[models.NotificationType]Template
}

// NewRegistry returns the registry seeded with the clinic catalog.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[models.NotificationType]Template, len(catalog))}
	for t, tmpl := range catalog {
		r.templates[t] = tmpl
	}
	return r
}

// Register adds or replaces the template for a type.
func (r *Registry) Register(t models.NotificationType, tmpl Template) {
	r.templates[t] = tmpl
}

// Known reports whether t has any template.
func (r *Registry) Known(t models.NotificationType) bool {
	_, ok := r.templates[t]
	return ok
}

// SMS renders the text body; types without an SMS text fall back to vars["message"].
func (r *Registry) SMS(t models.NotificationType, vars map[string]string) string {
	tmpl, ok := r.templates[t]
	if !ok || tmpl.SMS == "" {
		return vars["message"]
	}
	return Render(tmpl.SMS, vars)
}

// EmailSubject renders the subject line for t.
func (r *Registry) EmailSubject(t models.NotificationType, vars map[string]string) string {
	tmpl, ok := r.templates[t]
	if !ok || tmpl.EmailSubject == "" {
		return "Notification from " + ClinicName
	}
	return Render(tmpl.EmailSubject, vars)
}

// EmailBody renders the HTML fragment for t with escaped variables. Types
// without a fragment fall back to vars["message"] as an escaped paragraph.
func (r *Registry) EmailBody(t models.NotificationType, vars map[string]string) string {
	tmpl, ok := r.templates[t]
	if !ok || tmpl.EmailBody == "" {
		return Paragraph(vars["message"])
	}
	body := renderEscaped(tmpl.EmailBody, vars)
	if url := strings.TrimSpace(vars["actionUrl"]); tmpl.ActionLabel != "" && url != "" {
		body += "\n" + fmt.Sprintf(actionButton, html.EscapeString(url), html.EscapeString(tmpl.ActionLabel))
	}
	return body
}

// Paragraph turns plain text into an escaped HTML paragraph, keeping line breaks.
func Paragraph(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>"
}

// Render substitutes {name} placeholders. Missing variables render empty.
func Render(text string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		return vars[m[1:len(m)-1]]
	})
}

func renderEscaped(text string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		return html.EscapeString(vars[m[1:len(m)-1]])
	})
}
