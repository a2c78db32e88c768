package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/web/models"
)

// HackathonRepository keeps hackathons in memory, newest first
type HackathonRepository struct {
	mu      sync.RWMutex
	baseURL string
	items   []models.Hackathon
	now     func() time.Time
}

// NewHackathonRepository creates a repository seeded with the demo events
func NewHackathonRepository(baseURL string) *HackathonRepository {
	return &HackathonRepository{
		baseURL: baseURL,
		items:   seedHackathons(),
		now:     time.Now,
	}
}

func seedHackathons() []models.Hackathon {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return []models.Hackathon{
		{
			ID:              seedID("hackathon", "ai-innovation"),
			Name:            "AI Innovation Challenge",
			Description:     "Build AI agents that solve real problems for real communities.",
			Theme:           "Artificial Intelligence",
			Format:          models.FormatVirtual,
			MaxParticipants: 500,
			Status:          models.HackathonRegistrationOpen,
			Participants:    156,
			Dates:           "Mar 15-17, 2024",
			RegistrationURL: "https://hackflow.io/ai-innovation-abc123",
			CreatedAt:       created,
		},
		{
			ID:              seedID("hackathon", "sustainability"),
			Name:            "Sustainability Hack",
			Description:     "Tools for measuring and cutting carbon footprints.",
			Theme:           "Climate",
			Format:          models.FormatHybrid,
			MaxParticipants: 200,
			Status:          models.HackathonInProgress,
			Participants:    89,
			Dates:           "Mar 10-12, 2024",
			RegistrationURL: "https://hackflow.io/sustainability-def456",
			CreatedAt:       created,
		},
		{
			ID:              seedID("hackathon", "fintech"),
			Name:            "FinTech Revolution",
			Description:     "Reinvent payments, lending and personal finance.",
			Theme:           "Finance",
			Format:          models.FormatInPerson,
			MaxParticipants: 300,
			Status:          models.HackathonCompleted,
			Participants:    234,
			Dates:           "Feb 28 - Mar 2, 2024",
			RegistrationURL: "https://hackflow.io/fintech-ghi789",
			CreatedAt:       created,
		},
	}
}

// List returns a copy of all hackathons
func (r *HackathonRepository) List() []models.Hackathon {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Hackathon, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the hackathon with id
func (r *HackathonRepository) Get(id string) (*models.Hackathon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			h := r.items[i]
			return &h, nil
		}
	}
	return nil, fmt.Errorf("hackathon %s: %w", id, models.ErrNotFound)
}

// Create validates in and prepends a draft hackathon
func (r *HackathonRepository) Create(in models.HackathonInput) (*models.Hackathon, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	h := models.Hackathon{
		ID:              id,
		Name:            in.Name,
		Description:     in.Description,
		Theme:           in.Theme,
		Format:          models.HackathonFormat(in.Format),
		MaxParticipants: in.MaxParticipants,
		Status:          models.HackathonDraft,
		Dates:           models.DateRange(in.StartDate, in.EndDate),
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		RegistrationURL: models.RegistrationURL(r.baseURL, in.Name, shortID(id)),
		Phases:          in.Phases,
		Prizes:          in.Prizes,
		Judges:          in.Judges,
		CustomFields:    withFieldIDs(in.CustomFields),
		CreatedAt:       r.now(),
	}

	r.mu.Lock()
	r.items = append([]models.Hackathon{h}, r.items...)
	r.mu.Unlock()

	metrics.IncHackathonsCreated()
	return &h, nil
}

// Enroll counts one more registration for hackathon id. full reports
// whether the hackathon had already reached its participant limit.
func (r *HackathonRepository) Enroll(id string) (full bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		h := &r.items[i]
		if h.ID != id {
			continue
		}
		full = h.MaxParticipants > 0 && h.Participants >= h.MaxParticipants
		h.Participants++
		return full, nil
	}
	return false, fmt.Errorf("hackathon %s: %w", id, models.ErrNotFound)
}

func withFieldIDs(fields []models.CustomField) []models.CustomField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]models.CustomField, len(fields))
	copy(out, fields)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.New().String()
		}
	}
	return out
}

// Stats computes the host dashboard counters
func (r *HackathonRepository) Stats() models.HostStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.ComputeHostStats(r.items)
}
