package models

import (
	"strings"
	"time"

	"github.com/foxzi/hackflow/internal/template"
)

// TemplateType groups email templates on the templates tab
type TemplateType string

const (
	TemplateWelcome      TemplateType = "welcome"
	TemplateReminder     TemplateType = "reminder"
	TemplateConfirmation TemplateType = "confirmation"
	TemplateUpdate       TemplateType = "update"
	TemplateCustom       TemplateType = "custom"
)

// TemplateTypes lists every template type in display order
var TemplateTypes = []TemplateType{
	TemplateWelcome, TemplateReminder, TemplateConfirmation, TemplateUpdate, TemplateCustom,
}

// EmailTemplate is a reusable message in the communication center
type EmailTemplate struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       TemplateType `json:"type"`
	Subject    string       `json:"subject"`
	Content    string       `json:"content"`
	Variables  []string     `json:"variables"`
	LastUsed   time.Time    `json:"last_used,omitzero"`
	UsageCount int          `json:"usage_count"`
}

// Template returns the subject and body for the renderer
func (t EmailTemplate) Template() *template.Template {
	return &template.Template{Subject: t.Subject, Body: t.Content}
}

// TemplateInput is the template creation form
type TemplateInput struct {
	Name    string
	Type    TemplateType
	Subject string
	Content string
}

// Validate checks the form
func (in *TemplateInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "Template name is required")
	}
	if strings.TrimSpace(in.Subject) == "" {
		errs.add("subject", "Subject is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		errs.add("content", "Content is required")
	}
	valid := false
	for _, t := range TemplateTypes {
		if in.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		errs.add("type", "Unknown template type")
	}
	return errs.err(ErrInvalidInput)
}

// TemplateVariables are the variables offered in the template editor
var TemplateVariables = []string{"name", "hackathonName", "eventDate", "eventURL", "participantId"}

// SampleContact fills every editor variable for template previews
func SampleContact() map[string]string {
	return map[string]string{
		"name":          "Jane Smith",
		"email":         "jane@example.com",
		"hackathonName": "AI Innovation Challenge",
		"eventDate":     "Mar 15-17, 2024",
		"eventLocation": "Virtual",
		"eventURL":      "https://hackflow.io/ai-innovation-abc123",
		"participantId": "HF-0042",
	}
}
