package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foxzi/hackflow/internal/web/models"
)

var communicationTabs = []string{"campaigns", "templates", "automation", "analytics"}

type campaignRow struct {
	models.Campaign
	TemplateName  string
	HackathonName string
}

type communicationsData struct {
	Tab           string
	Tabs          []string
	Campaigns     []campaignRow
	Templates     []models.EmailTemplate
	Rules         []models.AutomationRule
	Stats         models.CampaignStats
	Analytics     models.CampaignAnalytics
	Hackathons    []models.Hackathon
	TemplateTypes []models.TemplateType
	Audiences     []models.Audience
	Variables     []string
	Errors        map[string]string
}

// Communications renders the communication center
func (h *Handlers) Communications(w http.ResponseWriter, r *http.Request) {
	h.renderCommunications(w, http.StatusOK, r.URL.Query().Get("tab"), nil, r.URL.Query().Get("created"))
}

func (h *Handlers) renderCommunications(w http.ResponseWriter, status int, tab string, errs map[string]string, flash string) {
	valid := false
	for _, t := range communicationTabs {
		if tab == t {
			valid = true
			break
		}
	}
	if !valid {
		tab = communicationTabs[0]
	}

	templates := h.templates.List()
	hackathons := h.hackathons.List()

	templateNames := make(map[string]string, len(templates))
	for _, t := range templates {
		templateNames[t.ID] = t.Name
	}
	hackathonNames := make(map[string]string, len(hackathons))
	for _, hk := range hackathons {
		hackathonNames[hk.ID] = hk.Name
	}

	campaigns := h.campaigns.List()
	rows := make([]campaignRow, 0, len(campaigns))
	for _, c := range campaigns {
		rows = append(rows, campaignRow{
			Campaign:      c,
			TemplateName:  templateNames[c.TemplateID],
			HackathonName: hackathonNames[c.HackathonID],
		})
	}

	h.render(w, status, "communications", page{
		Title: "Communication Center",
		Nav:   "communications",
		Flash: flash,
		Data: communicationsData{
			Tab:           tab,
			Tabs:          communicationTabs,
			Campaigns:     rows,
			Templates:     templates,
			Rules:         h.templates.Rules(),
			Stats:         h.campaigns.Stats(),
			Analytics:     h.campaigns.Analytics(),
			Hackathons:    hackathons,
			TemplateTypes: models.TemplateTypes,
			Audiences:     []models.Audience{models.AudienceAll, models.AudienceApproved, models.AudienceRegistered},
			Variables:     models.TemplateVariables,
			Errors:        errs,
		},
	})
}

// CampaignCreate stores a draft or scheduled campaign
func (h *Handlers) CampaignCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, r, err)
		return
	}

	in := models.CampaignInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		HackathonID: r.FormValue("hackathon_id"),
		TemplateID:  r.FormValue("template_id"),
		Audience:    models.Audience(r.FormValue("audience")),
	}
	if raw := r.FormValue("scheduled_date"); raw != "" {
		at, err := time.Parse(formDate, raw)
		if err != nil {
			h.communicationsError(w, r, "campaigns", &models.ValidationError{
				Kind:   models.ErrInvalidInput,
				Fields: map[string]string{"scheduled_date": "Use YYYY-MM-DD"},
			})
			return
		}
		in.ScheduledDate = at
	}

	recipients := 0
	if in.HackathonID != "" {
		if _, err := h.hackathons.Get(in.HackathonID); err != nil {
			h.communicationsError(w, r, "campaigns", &models.ValidationError{
				Kind:   models.ErrInvalidInput,
				Fields: map[string]string{"hackathon_id": "Hackathon does not exist"},
			})
			return
		}
		for _, p := range h.participants.ListByHackathon(in.HackathonID, "") {
			if in.Audience.Matches(p) {
				recipients++
			}
		}
	}

	c, err := h.campaigns.Create(in, recipients)
	if err != nil {
		h.communicationsError(w, r, "campaigns", err)
		return
	}

	h.logger.Info("campaign created", "id", c.ID, "status", c.Status, "recipients", c.RecipientCount)
	if wantsJSON(r) {
		h.sendJSON(w, http.StatusCreated, c)
		return
	}
	http.Redirect(w, r, "/communications?tab=campaigns&created="+url.QueryEscape(c.Name), http.StatusSeeOther)
}

// TemplateCreate stores a new email template
func (h *Handlers) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, r, err)
		return
	}

	t, err := h.templates.Create(models.TemplateInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Type:    models.TemplateType(r.FormValue("type")),
		Subject: r.FormValue("subject"),
		Content: r.FormValue("content"),
	})
	if err != nil {
		h.communicationsError(w, r, "templates", err)
		return
	}

	h.logger.Info("template created", "id", t.ID, "variables", t.Variables)
	if wantsJSON(r) {
		h.sendJSON(w, http.StatusCreated, t)
		return
	}
	http.Redirect(w, r, "/communications?tab=templates&created="+url.QueryEscape(t.Name), http.StatusSeeOther)
}

func (h *Handlers) communicationsError(w http.ResponseWriter, r *http.Request, tab string, err error) {
	if wantsJSON(r) {
		h.sendError(w, err)
		return
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		h.renderCommunications(w, http.StatusBadRequest, tab, verr.Fields, "")
		return
	}
	h.error(w, err)
}

type templatePreviewData struct {
	Template *models.EmailTemplate
	Subject  string
	Body     string
	Sample   map[string]string
	Missing  []string
}

// TemplatePreview renders a template against the sample contact as a
// fragment for the preview dialog
func (h *Handlers) TemplatePreview(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	sample := models.SampleContact()
	rendered := h.merge.Render(t.Template(), sample)
	data := templatePreviewData{
		Template: t,
		Subject:  rendered.Subject,
		Body:     rendered.Body,
		Sample:   sample,
		Missing:  h.merge.Missing(t.Template(), sample),
	}

	if wantsJSON(r) {
		h.sendJSON(w, http.StatusOK, map[string]any{
			"id":      t.ID,
			"subject": data.Subject,
			"body":    data.Body,
			"missing": data.Missing,
		})
		return
	}
	h.renderPartial(w, "template_preview", data)
}
