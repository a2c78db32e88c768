package models

import (
	"strings"
	"time"
)

// HackathonStatus is the lifecycle label shown on the dashboard
type HackathonStatus string

const (
	HackathonDraft            HackathonStatus = "Draft"
	HackathonRegistrationOpen HackathonStatus = "Registration Open"
	HackathonInProgress       HackathonStatus = "In Progress"
	HackathonCompleted        HackathonStatus = "Completed"
)

// HackathonFormat is where the event takes place
type HackathonFormat string

const (
	FormatVirtual  HackathonFormat = "virtual"
	FormatInPerson HackathonFormat = "in-person"
	FormatHybrid   HackathonFormat = "hybrid"
)

// HackathonFormats lists the accepted formats in display order
var HackathonFormats = []HackathonFormat{FormatVirtual, FormatInPerson, FormatHybrid}

// Hackathon is a mock event on the host dashboard
type Hackathon struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Theme           string          `json:"theme,omitempty"`
	Format          HackathonFormat `json:"format,omitempty"`
	MaxParticipants int             `json:"max_participants,omitempty"`
	Status          HackathonStatus `json:"status"`
	Participants    int             `json:"participants"`
	Dates           string          `json:"dates"`
	StartDate       time.Time       `json:"start_date,omitzero"`
	EndDate         time.Time       `json:"end_date,omitzero"`
	RegistrationURL string          `json:"registration_url"`
	Phases          Phases          `json:"phases,omitzero"`
	Prizes          []Prize         `json:"prizes,omitempty"`
	Judges          []Judge         `json:"judges,omitempty"`
	CustomFields    []CustomField   `json:"custom_fields,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// HackathonInput is the creation form
type HackathonInput struct {
	Name            string
	Description     string
	Theme           string
	Format          string
	MaxParticipants int
	StartDate       time.Time
	EndDate         time.Time
	Phases          Phases
	Prizes          []Prize
	Judges          []Judge
	CustomFields    []CustomField
}

// Validate checks the creation form. The returned error is a
// *ValidationError wrapping ErrInvalidHackathon.
func (in *HackathonInput) Validate() error {
	errs := fieldErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "Hackathon name is required")
	}
	if len([]rune(strings.TrimSpace(in.Description))) < 10 {
		errs.add("description", "Description must be at least 10 characters")
	}
	if strings.TrimSpace(in.Theme) == "" {
		errs.add("theme", "Theme is required")
	}
	if !validFormat(in.Format) {
		errs.add("format", "Format must be virtual, in-person or hybrid")
	}
	if in.MaxParticipants < 1 {
		errs.add("max_participants", "Must allow at least 1 participant")
	}
	if in.StartDate.IsZero() {
		errs.add("start_date", "Start date is required")
	}
	if in.EndDate.IsZero() {
		errs.add("end_date", "End date is required")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		errs.add("end_date", "End date must not be before start date")
	}
	in.validateProgram(errs)

	return errs.err(ErrInvalidHackathon)
}

func validFormat(s string) bool {
	for _, f := range HackathonFormats {
		if HackathonFormat(s) == f {
			return true
		}
	}
	return false
}

// Slug lower-cases name and turns every character outside [a-z0-9] into '-'.
// Runs of dashes are kept, matching the registration links already issued.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// RegistrationURL joins base, the slug of name and a short id
func RegistrationURL(base, name, shortID string) string {
	return strings.TrimRight(base, "/") + "/" + Slug(name) + "-" + shortID
}

// DateRange formats an event window for display
func DateRange(start, end time.Time) string {
	const layout = "Jan 2, 2006"
	if start.Equal(end) {
		return start.Format(layout)
	}
	return start.Format(layout) + " - " + end.Format(layout)
}

// HostStats are the overview counters of the host dashboard
type HostStats struct {
	TotalHackathons   int `json:"total_hackathons"`
	TotalParticipants int `json:"total_participants"`
	ActiveHackathons  int `json:"active_hackathons"`
	Completed         int `json:"completed_hackathons"`
}

// ComputeHostStats aggregates the hackathon list
func ComputeHostStats(list []Hackathon) HostStats {
	stats := HostStats{TotalHackathons: len(list)}
	for _, h := range list {
		stats.TotalParticipants += h.Participants
		switch h.Status {
		case HackathonRegistrationOpen, HackathonInProgress:
			stats.ActiveHackathons++
		case HackathonCompleted:
			stats.Completed++
		}
	}
	return stats
}
