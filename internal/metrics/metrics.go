package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for HackFlow
type Metrics struct {
	// Mail merge
	ContactsParsedTotal  prometheus.Counter
	ContactsSkippedTotal prometheus.Counter
	EmailsRenderedTotal  prometheus.Counter
	ExportsTotal         *prometheus.CounterVec

	// Dashboard
	HackathonsCreatedTotal prometheus.Counter
	CampaignsCreatedTotal  prometheus.Counter
	CampaignEmailsSent     *prometheus.CounterVec

	// Moderation
	ChatMessagesTotal      *prometheus.CounterVec
	ModerationActionsTotal *prometheus.CounterVec
	SlowModeRejectedTotal  prometheus.Counter
	LiveClients            prometheus.Gauge

	// HTTP
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	HTTPErrorsTotal            *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ContactsParsedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hackflow_contacts_parsed_total",
				Help: "Total number of contacts accepted from CSV uploads",
			},
		),
		ContactsSkippedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hackflow_contacts_skipped_total",
				Help: "Total number of CSV rows dropped for missing name or email",
			},
		),
		EmailsRenderedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hackflow_emails_rendered_total",
				Help: "Total number of personalised emails rendered",
			},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackflow_exports_total",
				Help: "Total number of generated mail merge downloads",
			},
			[]string{"format"},
		),

		HackathonsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hackflow_hackathons_created_total",
				Help: "Total number of hackathons created in this session",
			},
		),
		CampaignsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hackflow_campaigns_created_total",
				Help: "Total number of email campaigns created in this session",
			},
		),
		CampaignEmailsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackflow_campaign_emails_sent_total",
				Help: "Total number of campaign emails marked sent by the dispatcher",
			},
			[]string{"campaign"},
		),

		ChatMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackflow_chat_messages_total",
				Help: "Total number of chat messages posted by moderators",
			},
			[]string{"channel"},
		),
		ModerationActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackflow_moderation_actions_total",
				Help: "Total number of moderation actions taken",
			},
			[]string{"type"},
		),
		SlowModeRejectedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hackflow_slow_mode_rejected_total",
				Help: "Total number of chat posts rejected by slow mode",
			},
		),
		LiveClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hackflow_live_clients",
				Help: "Number of connected live moderation feed clients",
			},
		),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackflow_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hackflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackflow_http_errors_total",
				Help: "Total number of HTTP error responses",
			},
			[]string{"error_type"},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.ContactsParsedTotal,
		m.ContactsSkippedTotal,
		m.EmailsRenderedTotal,
		m.ExportsTotal,
		m.HackathonsCreatedTotal,
		m.CampaignsCreatedTotal,
		m.CampaignEmailsSent,
		m.ChatMessagesTotal,
		m.ModerationActionsTotal,
		m.SlowModeRejectedTotal,
		m.LiveClients,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.HTTPErrorsTotal,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// ObserveParse records the outcome of one CSV upload
func ObserveParse(accepted, skipped int) {
	if m := Global(); m != nil {
		m.ContactsParsedTotal.Add(float64(accepted))
		m.ContactsSkippedTotal.Add(float64(skipped))
	}
}

// ObserveRendered adds n rendered emails
func ObserveRendered(n int) {
	if m := Global(); m != nil {
		m.EmailsRenderedTotal.Add(float64(n))
	}
}

// ObserveExport increments the download counter for format
func ObserveExport(format string) {
	if m := Global(); m != nil {
		m.ExportsTotal.WithLabelValues(format).Inc()
	}
}

// IncHackathonsCreated increments the created hackathon counter
func IncHackathonsCreated() {
	if m := Global(); m != nil {
		m.HackathonsCreatedTotal.Inc()
	}
}

// IncCampaignsCreated increments the created campaign counter
func IncCampaignsCreated() {
	if m := Global(); m != nil {
		m.CampaignsCreatedTotal.Inc()
	}
}

// ObserveCampaignSent adds n dispatched emails for campaign
func ObserveCampaignSent(campaign string, n int) {
	if m := Global(); m != nil {
		m.CampaignEmailsSent.WithLabelValues(campaign).Add(float64(n))
	}
}

// IncChatMessages increments the chat message counter for channel
func IncChatMessages(channel string) {
	if m := Global(); m != nil {
		m.ChatMessagesTotal.WithLabelValues(channel).Inc()
	}
}

// IncModerationActions increments the moderation action counter
func IncModerationActions(actionType string) {
	if m := Global(); m != nil {
		m.ModerationActionsTotal.WithLabelValues(actionType).Inc()
	}
}

// IncSlowModeRejected increments the slow mode rejection counter
func IncSlowModeRejected() {
	if m := Global(); m != nil {
		m.SlowModeRejectedTotal.Inc()
	}
}

// SetLiveClients sets the number of connected feed clients
func SetLiveClients(n int) {
	if m := Global(); m != nil {
		m.LiveClients.Set(float64(n))
	}
}

// IncHTTPErrors increments HTTP error counter
func IncHTTPErrors(errorType string) {
	if m := Global(); m != nil {
		m.HTTPErrorsTotal.WithLabelValues(errorType).Inc()
	}
}
