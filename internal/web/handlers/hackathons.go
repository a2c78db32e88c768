package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foxzi/hackflow/internal/export"
	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/web/models"
)

const formDate = "2006-01-02"

type hackathonForm struct {
	Name            string
	Description     string
	Theme           string
	Format          string
	MaxParticipants string
	StartDate       string
	EndDate         string
	Phases          []phaseRow
	Prizes          []models.Prize
	Judges          []models.Judge
	Fields          []fieldRow
}

type phaseRow struct {
	Key   string
	Label string
	Start string
	End   string
}

type fieldRow struct {
	Label     string
	Type      string
	Required  bool
	Options   string
	DependsOn string
	ShowWhen  string
}

// Minimum blank rows offered by the creation form
const (
	minPrizeRows = 4
	minJudgeRows = 3
	minFieldRows = 3
)

func newHackathonForm() hackathonForm {
	f := hackathonForm{
		Format: string(models.FormatVirtual),
		Prizes: models.DefaultPrizes(),
	}
	f.pad()
	return f
}

// readHackathonForm collects the creation form. Repeated rows are read
// column by column from keys such as prize_place and judge_name.
func readHackathonForm(form url.Values) hackathonForm {
	f := hackathonForm{
		Name:            form.Get("name"),
		Description:     form.Get("description"),
		Theme:           form.Get("theme"),
		Format:          form.Get("format"),
		MaxParticipants: form.Get("max_participants"),
		StartDate:       form.Get("start_date"),
		EndDate:         form.Get("end_date"),
	}

	for _, np := range (models.Phases{}).All() {
		f.Phases = append(f.Phases, phaseRow{
			Key:   np.Key,
			Label: np.Label,
			Start: form.Get("phase_" + np.Key + "_start"),
			End:   form.Get("phase_" + np.Key + "_end"),
		})
	}

	for i := range rowCount(form, "prize_place", "prize_amount", "prize_description") {
		f.Prizes = append(f.Prizes, models.Prize{
			Place:       cell(form, "prize_place", i),
			Amount:      cell(form, "prize_amount", i),
			Description: cell(form, "prize_description", i),
		})
	}

	for i := range rowCount(form, "judge_name", "judge_title", "judge_company") {
		f.Judges = append(f.Judges, models.Judge{
			Name:    cell(form, "judge_name", i),
			Title:   cell(form, "judge_title", i),
			Company: cell(form, "judge_company", i),
		})
	}

	for i := range rowCount(form, "field_label", "field_options", "field_depends_on", "field_show_when") {
		required, _ := strconv.ParseBool(cell(form, "field_required", i))
		f.Fields = append(f.Fields, fieldRow{
			Label:     cell(form, "field_label", i),
			Type:      cell(form, "field_type", i),
			Required:  required,
			Options:   cell(form, "field_options", i),
			DependsOn: cell(form, "field_depends_on", i),
			ShowWhen:  cell(form, "field_show_when", i),
		})
	}

	return f
}

func rowCount(form url.Values, keys ...string) int {
	n := 0
	for _, k := range keys {
		n = max(n, len(form[k]))
	}
	return n
}

func cell(form url.Values, key string, i int) string {
	if i < len(form[key]) {
		return strings.TrimSpace(form[key][i])
	}
	return ""
}

// pad adds blank rows so a re-rendered form always offers empty slots
func (f *hackathonForm) pad() {
	if len(f.Phases) == 0 {
		for _, np := range (models.Phases{}).All() {
			f.Phases = append(f.Phases, phaseRow{Key: np.Key, Label: np.Label})
		}
	}
	for len(f.Prizes) < minPrizeRows {
		f.Prizes = append(f.Prizes, models.Prize{})
	}
	for len(f.Judges) < minJudgeRows {
		f.Judges = append(f.Judges, models.Judge{})
	}
	for len(f.Fields) < minFieldRows {
		f.Fields = append(f.Fields, fieldRow{Type: string(models.FieldText)})
	}
}

func (f hackathonForm) input() models.HackathonInput {
	in := models.HackathonInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Theme:       strings.TrimSpace(f.Theme),
		Format:      f.Format,
	}
	in.MaxParticipants, _ = strconv.Atoi(strings.TrimSpace(f.MaxParticipants))
	in.StartDate, _ = time.Parse(formDate, f.StartDate)
	in.EndDate, _ = time.Parse(formDate, f.EndDate)

	for _, row := range f.Phases {
		var p models.Phase
		p.Start, _ = time.Parse(formDate, row.Start)
		p.End, _ = time.Parse(formDate, row.End)
		switch row.Key {
		case "prep":
			in.Phases.Prep = p
		case "submission":
			in.Phases.Submission = p
		case "judging":
			in.Phases.Judging = p
		}
	}

	for _, p := range f.Prizes {
		if p != (models.Prize{}) {
			in.Prizes = append(in.Prizes, p)
		}
	}
	for _, j := range f.Judges {
		if j != (models.Judge{}) {
			in.Judges = append(in.Judges, j)
		}
	}

	for _, row := range f.Fields {
		if row.Label == "" && row.Options == "" && row.DependsOn == "" && row.ShowWhen == "" {
			continue
		}
		field := models.CustomField{
			Label:    row.Label,
			Type:     models.FieldType(row.Type),
			Required: row.Required,
		}
		if field.Type == "" {
			field.Type = models.FieldText
		}
		for _, opt := range strings.Split(row.Options, ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				field.Options = append(field.Options, opt)
			}
		}
		if row.DependsOn != "" || row.ShowWhen != "" {
			field.Condition = &models.Condition{DependsOn: row.DependsOn, ShowWhen: row.ShowWhen}
		}
		in.CustomFields = append(in.CustomFields, field)
	}

	return in
}

type dashboardData struct {
	Hackathons []models.Hackathon
	Stats      models.HostStats
	Formats    []models.HackathonFormat
	FieldTypes []models.FieldType
	Form       hackathonForm
	Errors     map[string]string
}

// Dashboard renders the host dashboard
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, http.StatusOK, newHackathonForm(), nil, r.URL.Query().Get("created"))
}

func (h *Handlers) renderDashboard(w http.ResponseWriter, status int, form hackathonForm, errs map[string]string, flash string) {
	h.render(w, status, "dashboard", page{
		Title: "Host Dashboard",
		Nav:   "dashboard",
		Flash: flash,
		Data: dashboardData{
			Hackathons: h.hackathons.List(),
			Stats:      h.hackathons.Stats(),
			Formats:    models.HackathonFormats,
			FieldTypes: models.FieldTypes,
			Form:       form,
			Errors:     errs,
		},
	})
}

// HackathonCreate handles the creation wizard form
func (h *Handlers) HackathonCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.error(w, err)
		return
	}

	form := readHackathonForm(r.Form)

	created, err := h.hackathons.Create(form.input())
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			form.pad()
			h.renderDashboard(w, http.StatusBadRequest, form, verr.Fields, "")
			return
		}
		h.error(w, err)
		return
	}

	h.logger.Info("hackathon created", "id", created.ID, "name", created.Name)
	http.Redirect(w, r, "/dashboard?created="+url.QueryEscape(created.Name), http.StatusSeeOther)
}

type participantsData struct {
	Hackathon    *models.Hackathon
	Participants []models.Participant
	Counts       map[models.ParticipantStatus]int
	Statuses     []models.ParticipantStatus
	Filter       models.ParticipantStatus
	Form         models.ParticipantInput
	Errors       map[string]string
}

// statusFilter reads the optional ?status= filter
func statusFilter(r *http.Request) (models.ParticipantStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" || raw == "all" {
		return "", nil
	}
	return models.ParseParticipantStatus(raw)
}

// ParticipantList renders the participant management page
func (h *Handlers) ParticipantList(w http.ResponseWriter, r *http.Request) {
	hackathon, err := h.hackathons.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, err)
		return
	}
	filter, err := statusFilter(r)
	if err != nil {
		h.error(w, err)
		return
	}
	h.renderParticipants(w, http.StatusOK, hackathon, filter, models.ParticipantInput{}, nil)
}

func (h *Handlers) renderParticipants(w http.ResponseWriter, status int, hackathon *models.Hackathon, filter models.ParticipantStatus, form models.ParticipantInput, fieldErrs map[string]string) {
	all := h.participants.ListByHackathon(hackathon.ID, "")
	list := all
	if filter != "" {
		list = h.participants.ListByHackathon(hackathon.ID, filter)
	}

	h.render(w, status, "participants", page{
		Title: hackathon.Name + " participants",
		Nav:   "dashboard",
		Data: participantsData{
			Hackathon:    hackathon,
			Participants: list,
			Counts:       models.CountByStatus(all),
			Statuses:     models.ParticipantStatuses,
			Filter:       filter,
			Form:         form,
			Errors:       fieldErrs,
		},
	})
}

// ParticipantRegister adds a participant on the host's behalf. Once the
// hackathon is full new registrations are waitlisted.
func (h *Handlers) ParticipantRegister(w http.ResponseWriter, r *http.Request) {
	hackathon, err := h.hackathons.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.parseForm(r); err != nil {
		h.respondError(w, r, err)
		return
	}

	form := models.ParticipantInput{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Company:  r.PostForm.Get("company"),
		Position: r.PostForm.Get("position"),
		Country:  r.PostForm.Get("country"),
	}
	if err := form.Validate(); err != nil {
		var verr *models.ValidationError
		if !wantsJSON(r) && errors.As(err, &verr) {
			h.renderParticipants(w, http.StatusBadRequest, hackathon, "", form, verr.Fields)
			return
		}
		h.respondError(w, r, err)
		return
	}

	full, err := h.hackathons.Enroll(hackathon.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	p := form.Participant(hackathon.ID)
	if full {
		p.Status = models.ParticipantWaitlisted
	}
	p = h.participants.Add(p)
	h.logger.Info("participant registered", "hackathon_id", hackathon.ID, "participant_id", p.ID, "status", p.Status)

	if wantsJSON(r) {
		h.sendJSON(w, http.StatusCreated, p)
		return
	}
	http.Redirect(w, r, "/hackathons/"+hackathon.ID+"/participants", http.StatusSeeOther)
}

// ParticipantStatus changes a participant's review status
func (h *Handlers) ParticipantStatus(w http.ResponseWriter, r *http.Request) {
	hackathonID := chi.URLParam(r, "id")
	if err := h.parseForm(r); err != nil {
		h.respondError(w, r, err)
		return
	}

	status, err := models.ParseParticipantStatus(r.FormValue("status"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	p, err := h.participants.UpdateStatus(hackathonID, chi.URLParam(r, "pid"), status)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		h.sendJSON(w, http.StatusOK, p)
		return
	}
	http.Redirect(w, r, "/hackathons/"+hackathonID+"/participants", http.StatusSeeOther)
}

// ParticipantExport downloads the (optionally filtered) roster as CSV
func (h *Handlers) ParticipantExport(w http.ResponseWriter, r *http.Request) {
	hackathon, err := h.hackathons.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, err)
		return
	}
	filter, err := statusFilter(r)
	if err != nil {
		h.error(w, err)
		return
	}

	list := h.participants.ListByHackathon(hackathon.ID, filter)
	metrics.ObserveExport("participants")
	sendFile(w, &export.File{
		Name:        fmt.Sprintf("participants_%s.csv", models.Slug(hackathon.Name)),
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(export.ContactsCSV(models.ParticipantContacts(list))),
	})
}

// respondError answers scripts with JSON and browsers with the error page
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		h.sendError(w, err)
		return
	}
	h.error(w, err)
}
