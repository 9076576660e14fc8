// Package order builds the prompts and response schema for material
// order extraction.
package order

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"
)

//go:embed system.tmpl
var systemPromptTmpl string

//go:embed user.tmpl
var userPromptTmpl string

var (
	systemTemplate = template.Must(template.New("system").Parse(systemPromptTmpl))
	userTemplate   = template.Must(template.New("user").Parse(userPromptTmpl))
)

// SystemPromptData holds the values injected into the system prompt.
// The few-shot examples carry concrete dates so the model anchors
// relative deadlines against the current calendar.
type SystemPromptData struct {
	Year        int
	InSevenDays string
}

// SystemPrompt renders the system prompt for the given reference time.
func SystemPrompt(now time.Time) string {
	data := SystemPromptData{
		Year:        now.Year(),
		InSevenDays: now.AddDate(0, 0, 7).Format("2006-01-02"),
	}
	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, data); err != nil {
		return systemPromptTmpl
	}
	return buf.String()
}

// UserPrompt builds the user prompt wrapping the raw request text.
func UserPrompt(text string) string {
	var buf bytes.Buffer
	data := struct{ Text string }{Text: text}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
