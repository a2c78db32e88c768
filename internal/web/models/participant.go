package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/foxzi/hackflow/internal/contacts"
)

// ParticipantStatus is the review state of a registration
type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantApproved   ParticipantStatus = "approved"
	ParticipantWaitlisted ParticipantStatus = "waitlisted"
	ParticipantRejected   ParticipantStatus = "rejected"
)

// ParticipantStatuses lists every status in review order
var ParticipantStatuses = []ParticipantStatus{
	ParticipantRegistered,
	ParticipantApproved,
	ParticipantWaitlisted,
	ParticipantRejected,
}

// ParseParticipantStatus validates a status name
func ParseParticipantStatus(s string) (ParticipantStatus, error) {
	st := ParticipantStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ParticipantStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown participant status %q", ErrInvalidInput, s)
}

// Participant is one registration for a hackathon
type Participant struct {
	ID           string            `json:"id"`
	HackathonID  string            `json:"hackathon_id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Company      string            `json:"company,omitempty"`
	Position     string            `json:"position,omitempty"`
	Country      string            `json:"country,omitempty"`
	Status       ParticipantStatus `json:"status"`
	RegisteredAt time.Time         `json:"registered_at"`
}

// ParticipantInput is the host-side registration form
type ParticipantInput struct {
	Name     string
	Email    string
	Company  string
	Position string
	Country  string
}

// Validate checks the registration form. The returned error is a
// *ValidationError wrapping ErrInvalidInput.
func (in *ParticipantInput) Validate() error {
	errs := fieldErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "Name is required")
	}
	email := strings.TrimSpace(in.Email)
	switch addr, err := mail.ParseAddress(email); {
	case email == "":
		errs.add("email", "Email is required")
	case err != nil || addr.Address != email:
		errs.add("email", "Email address is not valid")
	}

	return errs.err(ErrInvalidInput)
}

// Participant builds a new registration for hackathonID from the form
func (in *ParticipantInput) Participant(hackathonID string) Participant {
	return Participant{
		HackathonID: hackathonID,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Company:     strings.TrimSpace(in.Company),
		Position:    strings.TrimSpace(in.Position),
		Country:     strings.TrimSpace(in.Country),
	}
}

// ParticipantFields is the column order used when exporting participants
var ParticipantFields = []string{
	contacts.FieldName, contacts.FieldEmail, "company", "position", "country", "status",
}

// Contact converts the participant into a mail merge record
func (p Participant) Contact() contacts.Contact {
	return contacts.Contact{
		contacts.FieldName:  p.Name,
		contacts.FieldEmail: p.Email,
		"company":           p.Company,
		"position":          p.Position,
		"country":           p.Country,
		"status":            string(p.Status),
	}
}

// ParticipantContacts builds a parse result suitable for CSV export
func ParticipantContacts(list []Participant) *contacts.Result {
	result := &contacts.Result{
		Fields:   ParticipantFields,
		Contacts: make([]contacts.Contact, 0, len(list)),
		Total:    len(list),
	}
	for _, p := range list {
		result.Contacts = append(result.Contacts, p.Contact())
	}
	return result
}

// CountByStatus tallies participants per status
func CountByStatus(list []Participant) map[ParticipantStatus]int {
	counts := make(map[ParticipantStatus]int, len(ParticipantStatuses))
	for _, st := range ParticipantStatuses {
		counts[st] = 0
	}
	for _, p := range list {
		counts[p.Status]++
	}
	return counts
}
