package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/foxzi/hackflow/internal/contacts"
	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/template"
	"github.com/foxzi/hackflow/internal/web/models"
)

// APIParseContacts parses a CSV body, or a multipart "contacts" file, and
// returns the retained contacts
func (h *Handlers) APIParseContacts(w http.ResponseWriter, r *http.Request) {
	var (
		result *contacts.Result
		err    error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := h.parseForm(r); err != nil {
			h.sendError(w, err)
			return
		}
		file, _, ferr := r.FormFile("contacts")
		if ferr != nil {
			h.sendError(w, fmt.Errorf("%w: contacts file is required", errBadRequest))
			return
		}
		defer file.Close()
		result, err = contacts.ParseReader(file)
	} else {
		result, err = contacts.ParseReader(r.Body)
	}
	if err != nil {
		var maxBytes *http.MaxBytesError
		if !errors.As(err, &maxBytes) {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		}
		h.sendError(w, err)
		return
	}

	metrics.ObserveParse(result.Len(), result.Skipped)
	h.sendJSON(w, http.StatusOK, result)
}

// PreviewRequest is the body of the mail merge preview endpoint
type PreviewRequest struct {
	CSV     string `json:"csv"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Index   int    `json:"index"`
}

// PreviewResponse is one rendered email
type PreviewResponse struct {
	Total   int              `json:"total"`
	Index   int              `json:"index"`
	Contact contacts.Contact `json:"contact"`
	Subject string           `json:"subject"`
	Body    string           `json:"body"`
	Missing []string         `json:"missing"`
}

// APIPreview renders the template for one contact of the CSV
func (h *Handlers) APIPreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.sendError(w, err)
			return
		}
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		h.sendError(w, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err))
		return
	}

	result := contacts.Parse(req.CSV)
	if result.Len() == 0 {
		h.sendError(w, errNoContacts)
		return
	}

	p := h.preview(result, &template.Template{Subject: req.Subject, Body: req.Body}, req.Index)
	missing := p.Missing
	if missing == nil {
		missing = []string{}
	}
	h.sendJSON(w, http.StatusOK, PreviewResponse{
		Total:   result.Len(),
		Index:   p.Index,
		Contact: p.Contact,
		Subject: p.Subject,
		Body:    p.Body,
		Missing: missing,
	})
}

// StatsResponse aggregates the dashboard counters
type StatsResponse struct {
	Hackathons  models.HostStats     `json:"hackathons"`
	Campaigns   models.CampaignStats `json:"campaigns"`
	LiveClients int                  `json:"live_clients"`
}

// APIStats returns dashboard counters
func (h *Handlers) APIStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Hackathons: h.hackathons.Stats(),
		Campaigns:  h.campaigns.Stats(),
	}
	if h.live != nil {
		resp.LiveClients = h.live.Len()
	}
	h.sendJSON(w, http.StatusOK, resp)
}
