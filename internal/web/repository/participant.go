package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foxzi/hackflow/internal/web/models"
)

// ParticipantRepository keeps registrations in memory
type ParticipantRepository struct {
	mu    sync.RWMutex
	items []models.Participant
}

type samplePerson struct {
	name, email, company, position, country string
}

var samplePeople = []samplePerson{
	{"Alex Johnson", "alex.johnson@example.com", "DevCorp", "Backend Engineer", "USA"},
	{"Maria Garcia", "maria.garcia@example.com", "Innovate Labs", "Data Scientist", "Spain"},
	{"Kenji Tanaka", "kenji.tanaka@example.com", "Nippon Soft", "Mobile Developer", "Japan"},
	{"Amara Okafor", "amara.okafor@example.com", "Lagos Tech Hub", "Product Designer", "Nigeria"},
	{"Lukas Weber", "lukas.weber@example.com", "Berlin AI", "ML Engineer", "Germany"},
	{"Priya Sharma", "priya.sharma@example.com", "CloudNine", "Frontend Developer", "India"},
	{"Sofia Rossi", "sofia.rossi@example.com", "Studio Milano", "UX Researcher", "Italy"},
	{"Diego Silva", "diego.silva@example.com", "Rio Labs", "Student", "Brazil"},
}

// NewParticipantRepository seeds a sample roster for each hackathon
func NewParticipantRepository(hackathons []models.Hackathon) *ParticipantRepository {
	r := &ParticipantRepository{}
	registered := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	for hi, h := range hackathons {
		for pi, p := range samplePeople {
			status := models.ParticipantStatuses[(hi+pi)%len(models.ParticipantStatuses)]
			r.items = append(r.items, models.Participant{
				ID:           seedID("participant", h.ID+"/"+p.email),
				HackathonID:  h.ID,
				Name:         p.name,
				Email:        p.email,
				Company:      p.company,
				Position:     p.position,
				Country:      p.country,
				Status:       status,
				RegisteredAt: registered.Add(time.Duration(pi) * 36 * time.Hour),
			})
		}
	}
	return r
}

// ListByHackathon returns participants of a hackathon. An empty status returns
// every participant.
func (r *ParticipantRepository) ListByHackathon(hackathonID string, status models.ParticipantStatus) []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Participant{}
	for _, p := range r.items {
		if p.HackathonID != hackathonID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Add registers a participant
func (r *ParticipantRepository) Add(p models.Participant) models.Participant {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ParticipantRegistered
	}
	if p.RegisteredAt.IsZero() {
		p.RegisteredAt = time.Now()
	}

	r.mu.Lock()
	r.items = append(r.items, p)
	r.mu.Unlock()
	return p
}

// UpdateStatus changes the review status of one participant
func (r *ParticipantRepository) UpdateStatus(hackathonID, id string, status models.ParticipantStatus) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].HackathonID == hackathonID && r.items[i].ID == id {
			r.items[i].Status = status
			p := r.items[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("participant %s: %w", id, models.ErrNotFound)
}
