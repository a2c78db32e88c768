package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCampaignProgress(t *testing.T) {
	tests := []struct {
		name string
		c    Campaign
		want float64
	}{
		{name: "complete", c: Campaign{RecipientCount: 156, SentCount: 156}, want: 100},
		{name: "half", c: Campaign{RecipientCount: 200, SentCount: 100}, want: 50},
		{name: "no recipients", c: Campaign{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeCampaignStats(t *testing.T) {
	campaigns := []Campaign{
		{Status: CampaignSent, RecipientCount: 156, OpenRate: 80},
		{Status: CampaignScheduled, RecipientCount: 89},
		{Status: CampaignSending, RecipientCount: 234, OpenRate: 100},
		{Status: CampaignDraft, RecipientCount: 1},
	}
	want := CampaignStats{
		TotalCampaigns:  4,
		ActiveCampaigns: 2,
		TotalRecipients: 480,
		AvgOpenRate:     45,
		TotalTemplates:  3,
	}
	if diff := cmp.Diff(want, ComputeCampaignStats(campaigns, 3)); diff != "" {
		t.Errorf("ComputeCampaignStats() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeCampaignStatsEmpty(t *testing.T) {
	got := ComputeCampaignStats(nil, 0)
	if got.AvgOpenRate != 0 {
		t.Errorf("AvgOpenRate = %v, want 0", got.AvgOpenRate)
	}
}

func TestComputeAnalytics(t *testing.T) {
	campaigns := []Campaign{
		{ID: "a", Status: CampaignSent, SentCount: 100, OpenRate: 80, ClickRate: 20},
		{ID: "b", Status: CampaignSending, SentCount: 50, OpenRate: 10, ClickRate: 10},
		{ID: "c", Status: CampaignSent, SentCount: 60, OpenRate: 90, ClickRate: 30},
	}
	got := ComputeAnalytics(campaigns)
	if got.TotalSent != 160 {
		t.Errorf("TotalSent = %d, want 160", got.TotalSent)
	}
	if got.AvgOpenRate != 85 || got.AvgClickRate != 25 {
		t.Errorf("averages = %v/%v, want 85/25", got.AvgOpenRate, got.AvgClickRate)
	}
	if len(got.Sent) != 2 {
		t.Errorf("len(Sent) = %d, want 2", len(got.Sent))
	}

	empty := ComputeAnalytics(nil)
	if empty.Sent == nil || empty.AvgOpenRate != 0 {
		t.Errorf("ComputeAnalytics(nil) = %+v", empty)
	}
}

func TestAudienceMatches(t *testing.T) {
	approved := Participant{Status: ParticipantApproved}
	registered := Participant{Status: ParticipantRegistered}

	if !AudienceAll.Matches(approved) || !AudienceAll.Matches(registered) {
		t.Error("all audience should match everyone")
	}
	if !AudienceApproved.Matches(approved) || AudienceApproved.Matches(registered) {
		t.Error("approved audience mismatch")
	}
	if AudienceRegistered.Matches(approved) || !AudienceRegistered.Matches(registered) {
		t.Error("registered audience mismatch")
	}
}

func TestCampaignInputValidate(t *testing.T) {
	ok := CampaignInput{Name: "Kickoff", TemplateID: "t1", Audience: AudienceAll}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := CampaignInput{Audience: "vip"}
	err := bad.Validate()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Validate() error = %v, want ErrInvalidInput", err)
	}
	var verr *ValidationError
	errors.As(err, &verr)
	for _, field := range []string{"name", "template_id", "audience"} {
		if _, found := verr.Fields[field]; !found {
			t.Errorf("missing field error for %q", field)
		}
	}
}
