package models

// AutomationRule sends a template when a trigger fires. Rules are display
// only; nothing evaluates the trigger.
type AutomationRule struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Trigger      string `json:"trigger"`
	TemplateID   string `json:"template_id,omitempty"`
	TemplateName string `json:"template_name"`
	Active       bool   `json:"active"`
}
