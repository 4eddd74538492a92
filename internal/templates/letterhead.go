package templates

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
	"time"
)

var letterhead = template.Must(template.New("letterhead").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background:#f4f6f9;font-family:Arial,Helvetica,sans-serif;color:#333333;">
<div style="max-width:600px;margin:0 auto;background:#ffffff;">
<div style="background:#2c5aa0;color:#ffffff;padding:24px;text-align:center;">
<h1 style="margin:0;font-size:22px;">{{.Clinic}}</h1>
<p style="margin:4px 0 0;font-size:13px;">Barangay Maybunga, Pasig City</p>
</div>
<div style="padding:24px;">
{{.Content}}
</div>
<div style="background:#f0f0f0;padding:16px;text-align:center;font-size:12px;color:#777777;">
<p style="margin:0;">This is an automated message from {{.Clinic}}. Please do not reply to this email.</p>
<p style="margin:4px 0 0;">&copy; {{.Year}} {{.Clinic}}</p>
</div>
</div>
</body>
</html>`))

type letterheadData struct {
	Subject string
	Clinic  string
	Content template.HTML
	Year    int
}

// Letterhead wraps an HTML fragment in the clinic's email layout. The content
// is trusted: fragments come from the registry with variables escaped.
func Letterhead(subject, content string) (string, error) {
	var buf bytes.Buffer
	err := letterhead.Execute(&buf, letterheadData{
		Subject: subject,
		Clinic:  ClinicName,
		Content: template.HTML(content),
		Year:    time.Now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("render letterhead: %w", err)
	}
	return buf.String(), nil
}

var (
	headBlock  = regexp.MustCompile(`(?is)<(head|style|script)[^>]*>.*?</(head|style|script)>`)
	blockBreak = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|h[1-6]|li|tr)>`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
	blankLines = regexp.MustCompile(`\n\s*\n+`)
)

// PlainText derives the text/plain alternative of an HTML body by stripping tags.
func PlainText(body string) string {
	text := headBlock.ReplaceAllString(body, "")
	text = blockBreak.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
