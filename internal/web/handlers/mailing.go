package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foxzi/hackflow/internal/contacts"
	"github.com/foxzi/hackflow/internal/export"
	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/template"
	"github.com/foxzi/hackflow/internal/web/content"
)

var errNoContacts = fmt.Errorf("%w: no valid contacts", errBadRequest)

type mailPreview struct {
	Index   int
	Contact contacts.Contact
	Subject string
	Body    string
	Missing []string
}

type mailingData struct {
	CSV       string
	Subject   string
	Body      string
	Result    *contacts.Result
	Variables []string
	Preview   *mailPreview
	Formats   []export.Format
}

// Mailing renders the mail merge page with the default invitation
func (h *Handlers) Mailing(w http.ResponseWriter, r *http.Request) {
	tmpl := content.Invitation()
	h.renderMailing(w, http.StatusOK, "", tmpl, nil, 0)
}

// MailingSubmit handles a contacts upload or a template edit. The parsed CSV
// travels back in a hidden field so the page holds no server-side state.
func (h *Handlers) MailingSubmit(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.error(w, err)
		return
	}

	csv, uploaded, err := h.readContacts(r)
	if err != nil {
		h.error(w, err)
		return
	}

	result := contacts.Parse(csv)
	if uploaded {
		metrics.ObserveParse(result.Len(), result.Skipped)
		h.logger.Info("contacts uploaded", "accepted", result.Len(), "skipped", result.Skipped)
	}

	tmpl := &template.Template{Subject: r.FormValue("subject"), Body: r.FormValue("body")}
	index, _ := strconv.Atoi(r.FormValue("preview"))
	h.renderMailing(w, http.StatusOK, csv, tmpl, result, index)
}

// readContacts prefers a freshly uploaded file over the carried CSV
func (h *Handlers) readContacts(r *http.Request) (string, bool, error) {
	file, _, err := r.FormFile("contacts")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read upload: %w", err)
		}
		return string(data), true, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return r.FormValue("csv"), false, nil
	default:
		return "", false, fmt.Errorf("%w: %v", errBadRequest, err)
	}
}

func (h *Handlers) renderMailing(w http.ResponseWriter, status int, csv string, tmpl *template.Template, result *contacts.Result, index int) {
	data := mailingData{
		CSV:       csv,
		Subject:   tmpl.Subject,
		Body:      tmpl.Body,
		Result:    result,
		Variables: []string{contacts.FieldName, contacts.FieldEmail},
		Formats:   export.Formats,
	}

	if result.Len() > 0 {
		data.Variables = append(data.Variables, result.ExtraFields()...)
		data.Preview = h.preview(result, tmpl, index)
	}

	h.render(w, status, "mailing", page{
		Title: "Mail Merge",
		Nav:   "mailing",
		Data:  data,
	})
}

// preview renders the contact at index, falling back to the first one
func (h *Handlers) preview(result *contacts.Result, tmpl *template.Template, index int) *mailPreview {
	if index < 0 || index >= result.Len() {
		index = 0
	}
	c := result.Contacts[index]
	rendered := h.merge.Render(tmpl, c)
	return &mailPreview{
		Index:   index,
		Contact: c,
		Subject: rendered.Subject,
		Body:    rendered.Body,
		Missing: h.merge.Missing(tmpl, c),
	}
}

// MailingDownload generates one of the mail merge files
func (h *Handlers) MailingDownload(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "kind"))
	if err != nil {
		h.error(w, err)
		return
	}
	if err := h.parseForm(r); err != nil {
		h.error(w, err)
		return
	}

	result := contacts.Parse(r.FormValue("csv"))
	if format != export.FormatWord && result.Len() == 0 {
		h.error(w, errNoContacts)
		return
	}

	tmpl := &template.Template{Subject: r.FormValue("subject"), Body: r.FormValue("body")}
	file, err := h.exporter.Generate(format, result, tmpl)
	if err != nil {
		h.error(w, err)
		return
	}

	h.logger.Info("mail merge download", "format", format, "contacts", result.Len())
	sendFile(w, file)
}

// MailingSample downloads the example contacts file
func (h *Handlers) MailingSample(w http.ResponseWriter, r *http.Request) {
	sendFile(w, export.SampleFile())
}
