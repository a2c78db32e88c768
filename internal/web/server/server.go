package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/foxzi/hackflow/internal/config"
	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/ratelimit"
	"github.com/foxzi/hackflow/internal/web/handlers"
	"github.com/foxzi/hackflow/internal/web/live"
	"github.com/foxzi/hackflow/internal/web/middleware"
	"github.com/foxzi/hackflow/internal/web/moderation"
	"github.com/foxzi/hackflow/internal/web/repository"
	"github.com/foxzi/hackflow/internal/web/static"
	"github.com/foxzi/hackflow/internal/web/views"
	"github.com/foxzi/hackflow/internal/web/worker"
)

// Server owns the in-memory repositories and the HTTP listener of the
// dashboard
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	views   *views.Engine
	http    *http.Server
	hub     *live.Hub
	limiter *ratelimit.Limiter
	worker  *worker.Worker
	handler http.Handler
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	// Initialize views
	viewEngine, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize views: %w", err)
	}

	hackathons := repository.NewHackathonRepository(cfg.Site.BaseURL)
	templates := repository.NewTemplateRepository()
	seeded := hackathons.List()
	campaigns := repository.NewCampaignRepository(templates, seeded)

	hub := live.NewHub(cfg.Moderation.PingInterval, logger.With("component", "live"))
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Interval: cfg.Moderation.SlowModeInterval,
		Burst:    cfg.Moderation.SlowModeBurst,
	})

	dispatcher := worker.New(campaigns, logger, worker.Config{
		BatchSize:    cfg.Worker.BatchSize,
		PollInterval: cfg.Worker.PollInterval,
	})

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		views:   viewEngine,
		hub:     hub,
		limiter: limiter,
		worker:  dispatcher,
	}

	h := handlers.New(handlers.Deps{
		Site:         cfg.Site,
		Mailing:      cfg.Mailing,
		Views:        viewEngine,
		Hackathons:   hackathons,
		Participants: repository.NewParticipantRepository(seeded),
		Campaigns:    campaigns,
		Templates:    templates,
		Moderation: moderation.NewService(
			repository.NewChatRepository(),
			limiter,
			hub,
			cfg.Moderation.MaxMessageLength,
			logger.With("component", "moderation"),
		),
		Live:   hub,
		Logger: logger,
	})
	s.handler = s.setupRoutes(h)

	// Setup HTTP server
	s.http = &http.Server{
		Addr:           cfg.Server.ListenAddr,
		Handler:        s.handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s, nil
}

func (s *Server) setupRoutes(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(metrics.HTTPMiddleware)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recovery(s.logger))

	r.NotFound(h.NotFound)

	// Health check
	r.Get("/health", h.Health)

	// Static files (embedded)
	r.Handle("/static/*", http.StripPrefix("/static/", static.Handler()))

	// Live feed; no body limit or method override on the upgrade
	r.Get("/moderation/ws", h.Live)

	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBytes(s.cfg.Mailing.MaxUploadBytes))
		r.Use(middleware.MethodOverride)

		r.Get("/", h.Home)

		// Host dashboard
		r.Get("/dashboard", h.Dashboard)
		r.Post("/hackathons", h.HackathonCreate)
		r.Get("/hackathons/{id}/participants", h.ParticipantList)
		r.Post("/hackathons/{id}/participants", h.ParticipantRegister)
		r.Get("/hackathons/{id}/participants/export", h.ParticipantExport)
		r.Post("/hackathons/{id}/participants/{pid}/status", h.ParticipantStatus)

		// Mail merge
		r.Get("/mailing", h.Mailing)
		r.Post("/mailing", h.MailingSubmit)
		r.Post("/mailing/download/{kind}", h.MailingDownload)
		r.Get("/mailing/sample.csv", h.MailingSample)

		// Communication center
		r.Get("/communications", h.Communications)
		r.Post("/communications/campaigns", h.CampaignCreate)
		r.Post("/communications/templates", h.TemplateCreate)
		r.Get("/communications/templates/{id}/preview", h.TemplatePreview)

		// Moderation
		r.Get("/moderation", h.Moderation)
		r.Post("/moderation/messages", h.ModerationPost)
		r.Post("/moderation/messages/{id}/flag", h.ModerationFlag)
		r.Post("/moderation/actions", h.ModerationAction)

		// JSON API
		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/contacts/parse", h.APIParseContacts)
			r.Post("/mailmerge/preview", h.APIPreview)
			r.Get("/stats", h.APIStats)
		})
	})

	return r
}

// Handler returns the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the live feed hub
func (s *Server) Hub() *live.Hub {
	return s.hub
}

// Start runs the live hub until ctx is done, starts the campaign worker and
// then serves HTTP. It blocks until the listener stops.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	s.worker.Start()

	s.logger.Info("starting web server", "addr", s.cfg.Server.ListenAddr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the live feed first so websocket clients are released, then
// drains HTTP requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")

	s.hub.Stop()
	s.worker.Stop()
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}
