package models

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one window of the event timeline. Both ends zero means unset.
type Phase struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// IsZero reports whether neither end is set
func (p Phase) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Phases are the prep, submission and judging windows
type Phases struct {
	Prep       Phase `json:"prep,omitzero"`
	Submission Phase `json:"submission,omitzero"`
	Judging    Phase `json:"judging,omitzero"`
}

// NamedPhase pairs a phase with its form key and label
type NamedPhase struct {
	Key   string
	Label string
	Phase
}

// All lists the phases in timeline order, set or not
func (p Phases) All() []NamedPhase {
	return []NamedPhase{
		{Key: "prep", Label: "Preparation", Phase: p.Prep},
		{Key: "submission", Label: "Submission", Phase: p.Submission},
		{Key: "judging", Label: "Judging", Phase: p.Judging},
	}
}

// Timeline lists only the phases that have dates
func (p Phases) Timeline() []NamedPhase {
	var out []NamedPhase
	for _, np := range p.All() {
		if !np.IsZero() {
			out = append(out, np)
		}
	}
	return out
}

// Prize is one award of a hackathon
type Prize struct {
	Place       string `json:"place"`
	Amount      string `json:"amount,omitempty"`
	Description string `json:"description,omitempty"`
}

// DefaultPrizes prefill a new hackathon form
func DefaultPrizes() []Prize {
	return []Prize{
		{Place: "1st Place", Amount: "$5,000", Description: "Winner takes all"},
		{Place: "2nd Place", Amount: "$2,000", Description: "Runner up"},
		{Place: "3rd Place", Amount: "$1,000", Description: "Third place"},
	}
}

// Judge is a member of the judging panel
type Judge struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// FieldType is the input kind of a custom registration question
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
)

// FieldTypes lists the registration field types in display order
var FieldTypes = []FieldType{FieldText, FieldTextarea, FieldSelect, FieldCheckbox, FieldFile}

// Condition shows a field only when the field labelled DependsOn has the
// value ShowWhen
type Condition struct {
	DependsOn string `json:"depends_on,omitempty"`
	ShowWhen  string `json:"show_when,omitempty"`
}

// CustomField is an extra question on the registration form
type CustomField struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Type      FieldType  `json:"type"`
	Required  bool       `json:"required"`
	Options   []string   `json:"options,omitempty"`
	Condition *Condition `json:"conditional_logic,omitempty"`
}

func validFieldType(t FieldType) bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// validateProgram checks phases, prizes, judges and custom fields of in
func (in *HackathonInput) validateProgram(errs fieldErrors) {
	for _, np := range in.Phases.All() {
		key := "phase_" + np.Key
		switch {
		case np.IsZero():
		case np.Start.IsZero() || np.End.IsZero():
			errs.add(key, np.Label+" phase needs both a start and an end")
		case np.End.Before(np.Start):
			errs.add(key, np.Label+" phase must not end before it starts")
		}
	}

	for i, p := range in.Prizes {
		if strings.TrimSpace(p.Place) == "" {
			errs.add("prizes", fmt.Sprintf("Prize %d needs a place", i+1))
		}
	}

	for i, j := range in.Judges {
		if strings.TrimSpace(j.Name) == "" {
			errs.add("judges", fmt.Sprintf("Judge %d needs a name", i+1))
		}
	}

	labels := map[string]bool{}
	for _, f := range in.CustomFields {
		labels[strings.TrimSpace(f.Label)] = true
	}
	for i, f := range in.CustomFields {
		n := i + 1
		label := strings.TrimSpace(f.Label)
		switch {
		case label == "":
			errs.add("custom_fields", fmt.Sprintf("Field %d needs a label", n))
		case !validFieldType(f.Type):
			errs.add("custom_fields", fmt.Sprintf("Field %d has an unknown type", n))
		case f.Type == FieldSelect && len(f.Options) == 0:
			errs.add("custom_fields", fmt.Sprintf("Field %d is a select and needs options", n))
		case f.Condition != nil && f.Condition.DependsOn == "":
			errs.add("custom_fields", fmt.Sprintf("Field %d has a condition without a field to depend on", n))
		case f.Condition != nil && (f.Condition.DependsOn == label || !labels[f.Condition.DependsOn]):
			errs.add("custom_fields", fmt.Sprintf("Field %d depends on an unknown field", n))
		}
	}
}
