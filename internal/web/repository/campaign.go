package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/web/models"
)

// CampaignRepository keeps email campaigns in memory
type CampaignRepository struct {
	mu        sync.RWMutex
	items     []models.Campaign
	templates *TemplateRepository
	now       func() time.Time
}

// NewCampaignRepository creates a repository seeded with the demo campaigns.
// hackathons supplies the IDs the seeded campaigns point at.
func NewCampaignRepository(templates *TemplateRepository, hackathons []models.Hackathon) *CampaignRepository {
	return &CampaignRepository{
		items:     seedCampaigns(templates.List(), hackathons),
		templates: templates,
		now:       time.Now,
	}
}

func seedCampaigns(templates []models.EmailTemplate, hackathons []models.Hackathon) []models.Campaign {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	ref := func(i int) (string, string) {
		var tid, hid string
		if i < len(templates) {
			tid = templates[i].ID
		}
		if i < len(hackathons) {
			hid = hackathons[i].ID
		}
		return tid, hid
	}

	t1, h1 := ref(0)
	t2, h2 := ref(1)
	t3, h3 := ref(2)
	return []models.Campaign{
		{
			ID:             seedID("campaign", "ai-welcome"),
			Name:           "AI Challenge Welcome Series",
			TemplateID:     t1,
			HackathonID:    h1,
			Status:         models.CampaignSent,
			RecipientCount: 156,
			SentCount:      156,
			OpenRate:       87.5,
			ClickRate:      23.4,
			CreatedDate:    day(time.March, 1),
		},
		{
			ID:             seedID("campaign", "sustainability-reminders"),
			Name:           "Sustainability Hack Reminders",
			TemplateID:     t2,
			HackathonID:    h2,
			Status:         models.CampaignScheduled,
			RecipientCount: 89,
			ScheduledDate:  day(time.March, 15),
			CreatedDate:    day(time.March, 10),
		},
		{
			ID:             seedID("campaign", "registration-confirmations"),
			Name:           "Registration Confirmations",
			TemplateID:     t3,
			HackathonID:    h3,
			Status:         models.CampaignSending,
			RecipientCount: 234,
			SentCount:      198,
			OpenRate:       92.1,
			ClickRate:      45.7,
			CreatedDate:    day(time.February, 28),
		},
	}
}

// List returns a copy of all campaigns
func (r *CampaignRepository) List() []models.Campaign {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Campaign, len(r.items))
	copy(out, r.items)
	return out
}

// Create validates in and appends a draft or scheduled campaign addressed to
// recipients people. Nothing is sent.
func (r *CampaignRepository) Create(in models.CampaignInput, recipients int) (*models.Campaign, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := r.templates.Get(in.TemplateID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.ValidationError{
				Kind:   models.ErrInvalidInput,
				Fields: map[string]string{"template_id": "Template does not exist"},
			}
		}
		return nil, err
	}

	status := models.CampaignDraft
	if !in.ScheduledDate.IsZero() {
		status = models.CampaignScheduled
	}

	c := models.Campaign{
		ID:             uuid.New().String(),
		Name:           in.Name,
		TemplateID:     in.TemplateID,
		HackathonID:    in.HackathonID,
		Status:         status,
		RecipientCount: recipients,
		ScheduledDate:  in.ScheduledDate,
		CreatedDate:    r.now(),
	}

	r.mu.Lock()
	r.items = append(r.items, c)
	r.mu.Unlock()

	metrics.IncCampaignsCreated()
	return &c, nil
}

// Stats computes the communication center counters
func (r *CampaignRepository) Stats() models.CampaignStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.ComputeCampaignStats(r.items, r.templates.Count())
}

// Analytics aggregates campaigns that finished sending
func (r *CampaignRepository) Analytics() models.CampaignAnalytics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.ComputeAnalytics(r.items)
}

// Progress is one dispatcher step for a campaign
type Progress struct {
	Campaign models.Campaign
	Sent     int
}

// StartDue moves scheduled campaigns whose date is not after now to sending
// and marks their templates used. It returns the started campaigns.
func (r *CampaignRepository) StartDue(now time.Time) []models.Campaign {
	var started []models.Campaign

	r.mu.Lock()
	for i := range r.items {
		c := &r.items[i]
		if c.Status != models.CampaignScheduled || c.ScheduledDate.IsZero() || c.ScheduledDate.After(now) {
			continue
		}
		c.Status = models.CampaignSending
		started = append(started, *c)
	}
	r.mu.Unlock()

	for _, c := range started {
		r.templates.MarkUsed(c.TemplateID, now)
	}
	return started
}

// Advance marks up to batch more recipients of every sending campaign as sent.
// A campaign whose sent count reaches its recipient count becomes sent.
func (r *CampaignRepository) Advance(batch int) []Progress {
	if batch < 1 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Progress
	for i := range r.items {
		c := &r.items[i]
		if c.Status != models.CampaignSending {
			continue
		}
		n := min(batch, max(c.RecipientCount-c.SentCount, 0))
		c.SentCount += n
		if c.SentCount >= c.RecipientCount {
			c.Status = models.CampaignSent
		}
		out = append(out, Progress{Campaign: *c, Sent: n})
	}
	return out
}
