package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/web/repository"
)

// Worker advances mock campaigns in the background. No mail leaves the
// process; sent counts only move forward.
type Worker struct {
	logger    *slog.Logger
	campaigns *repository.CampaignRepository

	batchSize    int
	pollInterval time.Duration
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds worker configuration
type Config struct {
	BatchSize    int
	PollInterval time.Duration
}

// DefaultConfig returns default worker configuration
func DefaultConfig() Config {
	return Config{
		BatchSize:    10,
		PollInterval: 5 * time.Second,
	}
}

// New creates a new worker
func New(campaigns *repository.CampaignRepository, logger *slog.Logger, workerCfg Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	def := DefaultConfig()
	if workerCfg.BatchSize <= 0 {
		workerCfg.BatchSize = def.BatchSize
	}
	if workerCfg.PollInterval <= 0 {
		workerCfg.PollInterval = def.PollInterval
	}

	return &Worker{
		logger:       logger.With("component", "worker"),
		campaigns:    campaigns,
		batchSize:    workerCfg.BatchSize,
		pollInterval: workerCfg.PollInterval,
		now:          time.Now,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts the worker
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
	w.logger.Info("worker started", "batch_size", w.batchSize, "poll_interval", w.pollInterval)
}

// Stop stops the worker gracefully. It is safe to call on a worker that was
// never started.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")
	w.cancel()
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processCampaigns()
		}
	}
}

func (w *Worker) processCampaigns() {
	w.startScheduled()

	for _, step := range w.campaigns.Advance(w.batchSize) {
		c := step.Campaign
		if step.Sent > 0 {
			metrics.ObserveCampaignSent(c.ID, step.Sent)
			w.logger.Debug("campaign batch sent", "campaign_id", c.ID, "sent", step.Sent, "total", c.SentCount, "recipients", c.RecipientCount)
		}
		if c.SentCount >= c.RecipientCount {
			w.logger.Info("campaign completed", "campaign_id", c.ID, "campaign", c.Name, "sent", c.SentCount)
		}
	}
}

// startScheduled moves campaigns whose scheduled date has passed to sending
func (w *Worker) startScheduled() {
	for _, c := range w.campaigns.StartDue(w.now()) {
		w.logger.Info("started scheduled campaign", "campaign_id", c.ID, "campaign", c.Name, "scheduled_at", c.ScheduledDate)
	}
}
