package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foxzi/hackflow/internal/template"
	"github.com/foxzi/hackflow/internal/web/models"
)

// TemplateRepository keeps email templates in memory
type TemplateRepository struct {
	mu    sync.RWMutex
	items []models.EmailTemplate
	rules []models.AutomationRule
}

// NewTemplateRepository creates a repository seeded with the stock templates
// and the automation rules that send them
func NewTemplateRepository() *TemplateRepository {
	items := seedTemplates()
	return &TemplateRepository{items: items, rules: seedRules(items)}
}

func seedRules(templates []models.EmailTemplate) []models.AutomationRule {
	rules := []models.AutomationRule{
		{
			ID:           seedID("rule", "welcome"),
			Title:        "Welcome Email",
			Description:  "Send welcome email immediately after registration",
			Trigger:      "Registration Confirmed",
			TemplateName: "Welcome Email",
			Active:       true,
		},
		{
			ID:           seedID("rule", "reminder-7d"),
			Title:        "7-Day Reminder",
			Description:  "Send reminder 7 days before event starts",
			Trigger:      "7 days before event",
			TemplateName: "7-Day Reminder",
			Active:       true,
		},
		{
			ID:           seedID("rule", "reminder-1d"),
			Title:        "1-Day Reminder",
			Description:  "Send final reminder 1 day before event",
			Trigger:      "1 day before event",
			TemplateName: "Final Reminder",
			Active:       false,
		},
	}
	for i := range rules {
		for _, t := range templates {
			if t.Name == rules[i].TemplateName {
				rules[i].TemplateID = t.ID
				break
			}
		}
	}
	return rules
}

func seedTemplates() []models.EmailTemplate {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	items := []models.EmailTemplate{
		{
			ID:      seedID("template", "welcome"),
			Name:    "Welcome Email",
			Type:    models.TemplateWelcome,
			Subject: "Welcome to {{hackathonName}}!",
			Content: `Hello {{name}},

Welcome to {{hackathonName}}! We're excited to have you join us.

Event Details:
- Date: {{eventDate}}
- Location: {{eventLocation}}
- Registration Link: {{eventURL}}

Best regards,
The {{hackathonName}} Team`,
			LastUsed:   day(time.March, 10),
			UsageCount: 45,
		},
		{
			ID:      seedID("template", "reminder"),
			Name:    "7-Day Reminder",
			Type:    models.TemplateReminder,
			Subject: "Only 7 days left until {{hackathonName}}!",
			Content: `Hi {{name}},

Just a friendly reminder that {{hackathonName}} is coming up in one week!

Don't forget to:
- Prepare your development environment
- Review the challenge details
- Form your team (if you haven't already)

Looking forward to seeing you there!

Best,
The Organizing Team`,
			LastUsed:   day(time.March, 8),
			UsageCount: 32,
		},
		{
			ID:      seedID("template", "confirmation"),
			Name:    "Registration Confirmation",
			Type:    models.TemplateConfirmation,
			Subject: "Your registration for {{hackathonName}} is confirmed",
			Content: `Dear {{name}},

Your registration for {{hackathonName}} has been confirmed!

Registration Details:
- Event: {{hackathonName}}
- Date: {{eventDate}}
- Status: Confirmed
- Participant ID: {{participantId}}

We'll send you more details soon.

Thank you!`,
			LastUsed:   day(time.March, 12),
			UsageCount: 89,
		},
	}
	for i := range items {
		items[i].Variables = variables(items[i].Subject, items[i].Content)
	}
	return items
}

// variables lists distinct placeholders of subject then content
func variables(subject, content string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, key := range append(template.Placeholders(subject), template.Placeholders(content)...) {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// List returns a copy of all templates
func (r *TemplateRepository) List() []models.EmailTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.EmailTemplate, len(r.items))
	copy(out, r.items)
	return out
}

// Rules returns a copy of the automation rules
func (r *TemplateRepository) Rules() []models.AutomationRule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AutomationRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Count returns the number of templates
func (r *TemplateRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Get returns the template with id
func (r *TemplateRepository) Get(id string) (*models.EmailTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			t := r.items[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("template %s: %w", id, models.ErrNotFound)
}

// Create validates in and appends a new template
func (r *TemplateRepository) Create(in models.TemplateInput) (*models.EmailTemplate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	t := models.EmailTemplate{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		Subject:   in.Subject,
		Content:   in.Content,
		Variables: variables(in.Subject, in.Content),
	}

	r.mu.Lock()
	r.items = append(r.items, t)
	r.mu.Unlock()
	return &t, nil
}

// MarkUsed bumps the usage count of the template with id. Unknown IDs are
// ignored.
func (r *TemplateRepository) MarkUsed(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].UsageCount++
			r.items[i].LastUsed = at
			return
		}
	}
}
