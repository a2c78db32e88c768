package models

import (
	"strings"
	"time"
)

// CampaignStatus is the delivery state of a mock campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
	CampaignPaused    CampaignStatus = "paused"
)

// Campaign is a mock email campaign
type Campaign struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	TemplateID     string         `json:"template_id"`
	HackathonID    string         `json:"hackathon_id,omitempty"`
	Status         CampaignStatus `json:"status"`
	RecipientCount int            `json:"recipient_count"`
	SentCount      int            `json:"sent_count"`
	OpenRate       float64        `json:"open_rate"`
	ClickRate      float64        `json:"click_rate"`
	ScheduledDate  time.Time      `json:"scheduled_date,omitzero"`
	CreatedDate    time.Time      `json:"created_date"`
}

// Progress returns sent/recipients as a percentage, 0 when there are no
// recipients
func (c Campaign) Progress() float64 {
	if c.RecipientCount <= 0 {
		return 0
	}
	return float64(c.SentCount) / float64(c.RecipientCount) * 100
}

// Active reports whether the campaign is sending or scheduled
func (c Campaign) Active() bool {
	return c.Status == CampaignSending || c.Status == CampaignScheduled
}

// Audience selects which participants a new campaign targets
type Audience string

const (
	AudienceAll        Audience = "all"
	AudienceApproved   Audience = "approved"
	AudienceRegistered Audience = "registered"
)

// Matches reports whether a participant is in the audience
func (a Audience) Matches(p Participant) bool {
	switch a {
	case AudienceApproved:
		return p.Status == ParticipantApproved
	case AudienceRegistered:
		return p.Status == ParticipantRegistered
	default:
		return true
	}
}

// CampaignInput is the campaign creation form
type CampaignInput struct {
	Name          string
	HackathonID   string
	TemplateID    string
	Audience      Audience
	ScheduledDate time.Time // zero saves a draft
}

// Validate checks the form fields that do not need a lookup
func (in *CampaignInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "Campaign name is required")
	}
	if in.TemplateID == "" {
		errs.add("template_id", "Choose a template")
	}
	switch in.Audience {
	case "", AudienceAll, AudienceApproved, AudienceRegistered:
	default:
		errs.add("audience", "Unknown audience")
	}
	return errs.err(ErrInvalidInput)
}

// CampaignStats are the counters above the campaign list
type CampaignStats struct {
	TotalCampaigns  int     `json:"total_campaigns"`
	ActiveCampaigns int     `json:"active_campaigns"`
	TotalRecipients int     `json:"total_recipients"`
	AvgOpenRate     float64 `json:"avg_open_rate"`
	TotalTemplates  int     `json:"total_templates"`
}

// ComputeCampaignStats aggregates the campaign list. The average open rate is
// 0 when there are no campaigns.
func ComputeCampaignStats(campaigns []Campaign, templateCount int) CampaignStats {
	stats := CampaignStats{
		TotalCampaigns: len(campaigns),
		TotalTemplates: templateCount,
	}
	var openSum float64
	for _, c := range campaigns {
		if c.Active() {
			stats.ActiveCampaigns++
		}
		stats.TotalRecipients += c.RecipientCount
		openSum += c.OpenRate
	}
	if len(campaigns) > 0 {
		stats.AvgOpenRate = openSum / float64(len(campaigns))
	}
	return stats
}

// CampaignAnalytics summarises campaigns that finished sending
type CampaignAnalytics struct {
	Sent         []Campaign `json:"sent"`
	TotalSent    int        `json:"total_sent"`
	AvgOpenRate  float64    `json:"avg_open_rate"`
	AvgClickRate float64    `json:"avg_click_rate"`
}

// ComputeAnalytics aggregates sent campaigns only
func ComputeAnalytics(campaigns []Campaign) CampaignAnalytics {
	a := CampaignAnalytics{Sent: []Campaign{}}
	var openSum, clickSum float64
	for _, c := range campaigns {
		if c.Status != CampaignSent {
			continue
		}
		a.Sent = append(a.Sent, c)
		a.TotalSent += c.SentCount
		openSum += c.OpenRate
		clickSum += c.ClickRate
	}
	if n := len(a.Sent); n > 0 {
		a.AvgOpenRate = openSum / float64(n)
		a.AvgClickRate = clickSum / float64(n)
	}
	return a
}
