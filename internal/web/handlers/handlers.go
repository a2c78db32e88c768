package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foxzi/hackflow/internal/config"
	"github.com/foxzi/hackflow/internal/export"
	"github.com/foxzi/hackflow/internal/template"
	"github.com/foxzi/hackflow/internal/web/content"
	"github.com/foxzi/hackflow/internal/web/models"
	"github.com/foxzi/hackflow/internal/web/moderation"
	"github.com/foxzi/hackflow/internal/web/repository"
	"github.com/foxzi/hackflow/internal/web/views"
)

// LiveFeed is the websocket endpoint of the moderation panel
type LiveFeed interface {
	http.Handler
	Len() int
}

// Deps are the collaborators the handlers render from
type Deps struct {
	Site         config.SiteConfig
	Mailing      config.MailingConfig
	Views        *views.Engine
	Hackathons   *repository.HackathonRepository
	Participants *repository.ParticipantRepository
	Campaigns    *repository.CampaignRepository
	Templates    *repository.TemplateRepository
	Moderation   *moderation.Service
	Live         LiveFeed
	Logger       *slog.Logger
}

type Handlers struct {
	site         config.SiteConfig
	maxUpload    int64
	views        *views.Engine
	hackathons   *repository.HackathonRepository
	participants *repository.ParticipantRepository
	campaigns    *repository.CampaignRepository
	templates    *repository.TemplateRepository
	moderation   *moderation.Service
	live         LiveFeed
	merge        *template.Engine
	exporter     *export.Generator
	home         content.Home
	logger       *slog.Logger
}

func New(d Deps) *Handlers {
	merge := template.NewEngine()
	return &Handlers{
		site:         d.Site,
		maxUpload:    d.Mailing.MaxUploadBytes,
		views:        d.Views,
		hackathons:   d.Hackathons,
		participants: d.Participants,
		campaigns:    d.Campaigns,
		templates:    d.Templates,
		moderation:   d.Moderation,
		live:         d.Live,
		merge:        merge,
		exporter:     export.NewGenerator(merge),
		home:         content.Default(),
		logger:       d.Logger,
	}
}

// page is the data every layout render receives
type page struct {
	Title string
	Nav   string
	Site  string
	Flash string
	Error string
	Data  any
}

// Health check
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound renders the error page for unknown routes
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.error(w, models.ErrNotFound)
}

// Live serves the moderation websocket feed
func (h *Handlers) Live(w http.ResponseWriter, r *http.Request) {
	h.live.ServeHTTP(w, r)
}

// Helper to render templates
func (h *Handlers) render(w http.ResponseWriter, status int, name string, p page) {
	p.Site = h.site.Name
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.views.Render(w, name, p); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
	}
}

// Helper to render a layout-free fragment
func (h *Handlers) renderPartial(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.RenderPartial(w, name, data); err != nil {
		h.logger.Error("failed to render partial", "page", name, "error", err)
	}
}

// Helper for JSON responses
func (h *Handlers) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode response", "error", err)
	}
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Helper for JSON errors
func (h *Handlers) sendError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Kind.Error()
		resp.Fields = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request error", "status", status, "error", err)
		resp.Error = "internal error"
	}
	h.sendJSON(w, status, resp)
}

// Helper for HTML errors
func (h *Handlers) error(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request error", "status", status, "error", err)
		message = "Something went wrong."
	}
	h.render(w, status, "error", page{
		Title: http.StatusText(status),
		Error: message,
		Data:  status,
	})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSlowMode):
		return http.StatusTooManyRequests
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidHackathon),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrEmptyMessage),
		errors.Is(err, models.ErrMessageTooLong),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// wantsJSON reports whether the caller is a script rather than a form post
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// parseForm handles multipart, urlencoded and flat JSON object bodies
func (h *Handlers) parseForm(r *http.Request) error {
	if isJSONBody(r) {
		return parseJSONForm(r)
	}

	maxMemory := h.maxUpload
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// parseJSONForm copies a JSON object of scalars or scalar arrays into
// r.Form and r.PostForm so handlers read both encodings the same way.
func parseJSONForm(r *http.Request) error {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}

	form := url.Values{}
	for key, raw := range body {
		items := []any{raw}
		if list, ok := raw.([]any); ok {
			items = list
		}
		for _, item := range items {
			v, ok := formValue(item)
			if !ok {
				return fmt.Errorf("%w: field %q must be a string, number or boolean", errBadRequest, key)
			}
			form.Add(key, v)
		}
	}

	r.PostForm = form
	r.Form = url.Values{}
	for key, values := range form {
		r.Form[key] = values
	}
	for key, values := range r.URL.Query() {
		if _, ok := r.Form[key]; !ok {
			r.Form[key] = values
		}
	}
	return nil
}

func formValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// clientKey identifies the poster for slow mode. RealIP has already
// rewritten RemoteAddr from proxy headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func sendFile(w http.ResponseWriter, f *export.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	w.Write(f.Data)
}
