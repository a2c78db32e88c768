package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/foxzi/hackflow/internal/config"
	"github.com/foxzi/hackflow/internal/web/handlers"
	"github.com/foxzi/hackflow/internal/web/live"
	"github.com/foxzi/hackflow/internal/web/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testCSV = "name,email,company,position\n" +
	"John Doe,john@example.com,Tech Corp,Developer\n" +
	",missing@example.com,Nowhere,Ghost\n" +
	"Jane Smith,jane@example.com,StartupXYZ,Designer\n"

func setupTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Hub().Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Shutdown(context.Background())
	})

	return srv
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return do(t, h, req)
}

var (
	hackathonLink   = regexp.MustCompile(`/hackathons/([0-9a-f-]{36})/participants"`)
	participantLink = regexp.MustCompile(`/participants/([0-9a-f-]{36})/status`)
	templateLink    = regexp.MustCompile(`/communications/templates/([0-9a-f-]{36})/preview`)
)

func firstMatch(t *testing.T, re *regexp.Regexp, body string) string {
	t.Helper()
	m := re.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no match for %s", re)
	}
	return m[1]
}

func TestHealth(t *testing.T) {
	srv := setupTestServer(t, nil)

	rec := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestPages(t *testing.T) {
	srv := setupTestServer(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/", "HACKATHON TWIN"},
		{"/dashboard", "AI Innovation Challenge"},
		{"/mailing", "Mail Merge"},
		{"/communications", "AI Challenge Welcome Series"},
		{"/communications?tab=templates", "7-Day Reminder"},
		{"/communications?tab=analytics", "Completed campaigns"},
		{"/communications?tab=bogus", "New Campaign"},
		{"/moderation", "#general"},
		{"/moderation?channel=tech-help", `data-channel="tech-help"`},
		{"/static/css/app.css", "--accent"},
		{"/static/js/moderation.js", "/moderation/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	srv := setupTestServer(t, nil)

	tests := []string{"/nope", "/hackathons/unknown/participants", "/communications/templates/unknown/preview"}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			rec := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "<h1>404</h1>") {
				t.Error("expected the error page")
			}
		})
	}
}

func TestHackathonCreate(t *testing.T) {
	srv := setupTestServer(t, nil)
	h := srv.Handler()

	t.Run("valid", func(t *testing.T) {
		rec := postForm(t, h, "/hackathons", url.Values{
			"name":             {"Quantum Jam"},
			"description":      {"Build something with qubits"},
			"theme":            {"Quantum"},
			"format":           {"hybrid"},
			"max_participants": {"200"},
			"start_date":       {"2024-09-01"},
			"end_date":         {"2024-09-03"},
		}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/dashboard?created=Quantum+Jam" {
			t.Errorf("Location = %q", loc)
		}

		rec = do(t, h, httptest.NewRequest(http.MethodGet, "/dashboard?created=Quantum+Jam", nil))
		body := rec.Body.String()
		for _, want := range []string{`class="flash">Quantum Jam`, "https://hackflow.io/quantum-jam-", "Sep 1, 2024 - Sep 3, 2024"} {
			if !strings.Contains(body, want) {
				t.Errorf("dashboard missing %q", want)
			}
		}
	})

	t.Run("with program", func(t *testing.T) {
		rec := postForm(t, h, "/hackathons", url.Values{
			"name":                   {"Robot Rally"},
			"description":            {"Autonomous robots on a track"},
			"theme":                  {"Robotics"},
			"format":                 {"in-person"},
			"max_participants":       {"60"},
			"start_date":             {"2024-10-01"},
			"end_date":               {"2024-10-04"},
			"phase_submission_start": {"2024-10-02"},
			"phase_submission_end":   {"2024-10-03"},
			"prize_place":            {"Grand Prize", ""},
			"prize_amount":           {"$3,000", ""},
			"prize_description":      {"Fastest lap", ""},
			"judge_name":             {"Ada Lovelace", ""},
			"judge_title":            {"CTO", ""},
			"judge_company":          {"Engines Ltd", ""},
			"field_label":            {"Role", "School", ""},
			"field_type":             {"select", "text", "text"},
			"field_required":         {"true", "false", "false"},
			"field_options":          {"Student, Professional", "", ""},
			"field_depends_on":       {"", "Role", ""},
			"field_show_when":        {"", "Student", ""},
		}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		body := do(t, h, httptest.NewRequest(http.MethodGet, "/dashboard", nil)).Body.String()
		for _, want := range []string{
			"Submission: Oct 2, 2024 - Oct 3, 2024",
			"<strong>Grand Prize</strong> $3,000",
			"Ada Lovelace, CTO",
			"(Student, Professional)",
			"when Role is Student",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("dashboard missing %q", want)
			}
		}
	})

	t.Run("phase ends before it starts", func(t *testing.T) {
		rec := postForm(t, h, "/hackathons", url.Values{
			"name":                {"Backwards"},
			"description":         {"Time runs the other way"},
			"theme":               {"Time"},
			"format":              {"virtual"},
			"max_participants":    {"10"},
			"start_date":          {"2024-10-01"},
			"end_date":            {"2024-10-04"},
			"phase_judging_start": {"2024-10-04"},
			"phase_judging_end":   {"2024-10-02"},
		}, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"Judging phase must not end before it starts", `value="2024-10-04"`} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		rec := postForm(t, h, "/hackathons", url.Values{
			"description": {"short"},
			"format":      {"virtual"},
		}, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"Hackathon name is required", "Description must be at least 10 characters", ">short</textarea>"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
	})
}

func TestParticipants(t *testing.T) {
	srv := setupTestServer(t, nil)
	h := srv.Handler()

	dashboard := do(t, h, httptest.NewRequest(http.MethodGet, "/dashboard", nil)).Body.String()
	hid := firstMatch(t, hackathonLink, dashboard)
	base := "/hackathons/" + hid + "/participants"

	rec := do(t, h, httptest.NewRequest(http.MethodGet, base, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	pid := firstMatch(t, participantLink, rec.Body.String())

	t.Run("update status json", func(t *testing.T) {
		rec := postForm(t, h, base+"/"+pid+"/status", url.Values{"status": {"Rejected"}}, "application/json")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var p models.Participant
		if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if p.ID != pid || p.Status != models.ParticipantRejected {
			t.Errorf("got %s %s", p.ID, p.Status)
		}
	})

	t.Run("update status form", func(t *testing.T) {
		rec := postForm(t, h, base+"/"+pid+"/status", url.Values{"status": {"approved"}}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != base {
			t.Errorf("Location = %q, want %q", loc, base)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		rec := postForm(t, h, base+"/"+pid+"/status", url.Values{"status": {"vip"}}, "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		rec := postForm(t, h, base+"/nobody/status", url.Values{"status": {"approved"}}, "application/json")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("filter", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodGet, base+"?status=waitlisted", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		rec = do(t, h, httptest.NewRequest(http.MethodGet, base+"?status=bogus", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("export", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodGet, base+"/export?status=approved", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "participants_") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		lines := strings.Split(rec.Body.String(), "\n")
		if lines[0] != "name,email,company,position,country,status" {
			t.Errorf("header = %q", lines[0])
		}
		for _, line := range lines[1:] {
			if !strings.HasSuffix(line, `"approved"`) {
				t.Errorf("row %q is not approved", line)
			}
		}
	})

	t.Run("register json", func(t *testing.T) {
		form := url.Values{"name": {"Ana Lima"}, "email": {"ana@example.com"}, "country": {"Portugal"}}
		rec := postForm(t, h, base, form, "application/json")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var p models.Participant
		if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if p.ID == "" || p.HackathonID != hid || p.Status != models.ParticipantRegistered {
			t.Errorf("got %+v", p)
		}

		list := do(t, h, httptest.NewRequest(http.MethodGet, base, nil)).Body.String()
		if !strings.Contains(list, "ana@example.com") {
			t.Error("registered participant missing from the list")
		}
	})

	t.Run("register form", func(t *testing.T) {
		rec := postForm(t, h, base, url.Values{"name": {"Bo"}, "email": {"bo@example.com"}}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != base {
			t.Errorf("Location = %q, want %q", loc, base)
		}
	})

	t.Run("register invalid", func(t *testing.T) {
		rec := postForm(t, h, base, url.Values{"name": {"Cy"}, "email": {"not-an-email"}}, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "Email address is not valid") || !strings.Contains(body, `value="Cy"`) {
			t.Error("form was not re-rendered with the error and the entered values")
		}

		rec = postForm(t, h, base, url.Values{"email": {"cy@example.com"}}, "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("json status = %d, want 400", rec.Code)
		}
	})

	t.Run("register unknown hackathon", func(t *testing.T) {
		rec := postForm(t, h, "/hackathons/missing/participants", url.Values{"name": {"Di"}, "email": {"di@example.com"}}, "application/json")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func multipartUpload(t *testing.T, fields map[string]string, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("contacts", "contacts.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(csv))
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestMailing(t *testing.T) {
	srv := setupTestServer(t, nil)
	h := srv.Handler()

	tmpl := url.Values{
		"subject": {"Hello {{name}}"},
		"body":    {"Dear {{name}} from {{company}}, see you at {{venue}}."},
	}

	t.Run("upload", func(t *testing.T) {
		body, ct := multipartUpload(t, map[string]string{
			"subject": tmpl.Get("subject"),
			"body":    tmpl.Get("body"),
		}, testCSV)
		req := httptest.NewRequest(http.MethodPost, "/mailing", body)
		req.Header.Set("Content-Type", ct)

		rec := do(t, h, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		out := rec.Body.String()
		for _, want := range []string{
			"2 contacts loaded, 1 rows skipped",
			"Hello John Doe",
			"Dear John Doe from Tech Corp, see you at {{venue}}.",
			"Unresolved placeholders: venue",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("page missing %q", want)
			}
		}
	})

	t.Run("preview index", func(t *testing.T) {
		form := url.Values{"csv": {testCSV}, "preview": {"1"}}
		form.Set("subject", tmpl.Get("subject"))
		form.Set("body", tmpl.Get("body"))
		rec := postForm(t, h, "/mailing", form, "")
		if !strings.Contains(rec.Body.String(), "Hello Jane Smith") {
			t.Error("expected the second contact in the preview")
		}
	})

	t.Run("downloads", func(t *testing.T) {
		tests := []struct {
			kind     string
			csv      string
			status   int
			filename string
			contains string
		}{
			{"bundle", testCSV, http.StatusOK, "hackathon_emails_", "To: Jane Smith <jane@example.com>"},
			{"outlook", testCSV, http.StatusOK, "outlook_mail_merge.vbs", "Sub SendPersonalizedEmails()"},
			{"csv", testCSV, http.StatusOK, "contacts_for_outlook.csv", `"John Doe","john@example.com"`},
			{"word", "", http.StatusOK, "word_mail_merge_template.txt", "Subject: Hello «name»"},
			{"csv", "", http.StatusBadRequest, "", ""},
			{"pdf", testCSV, http.StatusBadRequest, "", ""},
		}

		for _, tt := range tests {
			t.Run(tt.kind, func(t *testing.T) {
				form := url.Values{"csv": {tt.csv}}
				form.Set("subject", tmpl.Get("subject"))
				form.Set("body", tmpl.Get("body"))
				rec := postForm(t, h, "/mailing/download/"+tt.kind, form, "")
				if rec.Code != tt.status {
					t.Fatalf("status = %d, want %d", rec.Code, tt.status)
				}
				if tt.status != http.StatusOK {
					return
				}
				if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, tt.filename) {
					t.Errorf("Content-Disposition = %q, want %q", cd, tt.filename)
				}
				if !strings.Contains(rec.Body.String(), tt.contains) {
					t.Errorf("body missing %q", tt.contains)
				}
			})
		}
	})

	t.Run("sample", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/mailing/sample.csv", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Body.String(), "name,email,company,position\n") {
			t.Errorf("unexpected sample %q", rec.Body.String())
		}
	})
}

func TestUploadTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Mailing.MaxUploadBytes = 64
	srv := setupTestServer(t, cfg)

	body, ct := multipartUpload(t, nil, strings.Repeat(testCSV, 10))
	req := httptest.NewRequest(http.MethodPost, "/mailing", body)
	req.Header.Set("Content-Type", ct)

	rec := do(t, srv.Handler(), req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestAPI(t *testing.T) {
	srv := setupTestServer(t, nil)
	h := srv.Handler()

	t.Run("parse contacts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/parse", strings.NewReader(testCSV))
		req.Header.Set("Content-Type", "text/csv")
		rec := do(t, h, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		var resp struct {
			Fields   []string            `json:"fields"`
			Contacts []map[string]string `json:"contacts"`
			Total    int                 `json:"total"`
			Skipped  int                 `json:"skipped"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if diff := cmp.Diff([]string{"name", "email", "company", "position"}, resp.Fields); diff != "" {
			t.Errorf("fields mismatch (-want +got):\n%s", diff)
		}
		if len(resp.Contacts) != 2 || resp.Total != 3 || resp.Skipped != 1 {
			t.Errorf("got %d contacts, total %d, skipped %d", len(resp.Contacts), resp.Total, resp.Skipped)
		}
	})

	t.Run("preview", func(t *testing.T) {
		payload, _ := json.Marshal(handlers.PreviewRequest{
			CSV:     testCSV,
			Subject: "Hi {{name}}",
			Body:    "{{position}} at {{company}} ({{team}})",
			Index:   5,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mailmerge/preview", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := do(t, h, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var got handlers.PreviewResponse
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		want := handlers.PreviewResponse{
			Total: 2,
			Index: 0,
			Contact: map[string]string{
				"name": "John Doe", "email": "john@example.com",
				"company": "Tech Corp", "position": "Developer",
			},
			Subject: "Hi John Doe",
			Body:    "Developer at Tech Corp ({{team}})",
			Missing: []string{"team"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("preview mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("preview without contacts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mailmerge/preview", strings.NewReader(`{"csv":"name,email\n"}`))
		rec := do(t, h, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("preview bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mailmerge/preview", strings.NewReader(`{`))
		rec := do(t, h, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp handlers.ErrorResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if !strings.Contains(resp.Error, "invalid request body") {
			t.Errorf("error = %q", resp.Error)
		}
	})

	t.Run("stats", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp handlers.StatsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if resp.Hackathons.TotalHackathons != 3 || resp.Campaigns.TotalCampaigns != 3 {
			t.Errorf("unexpected stats %+v", resp)
		}
	})
}

func TestCommunications(t *testing.T) {
	srv := setupTestServer(t, nil)
	h := srv.Handler()

	templates := do(t, h, httptest.NewRequest(http.MethodGet, "/communications?tab=templates", nil)).Body.String()
	tid := firstMatch(t, templateLink, templates)

	t.Run("automation tab", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/communications?tab=automation", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{
			"Automated Email Rules",
			"Send reminder 7 days before event starts",
			"Trigger: <strong>Registration Confirmed</strong>",
			"Final Reminder <span class=\"muted\">(not created yet)</span>",
			`class="active">automation</a>`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("automation tab missing %q", want)
			}
		}
		if got := strings.Count(body, ">Active</span>"); got != 2 {
			t.Errorf("active rules = %d, want 2", got)
		}
		if got := strings.Count(body, ">Inactive</span>"); got != 1 {
			t.Errorf("inactive rules = %d, want 1", got)
		}
		if !templateLink.MatchString(body) {
			t.Error("rules with a stock template should link to its preview")
		}
	})

	t.Run("create campaign", func(t *testing.T) {
		rec := postForm(t, h, "/communications/campaigns", url.Values{
			"name":           {"Kickoff"},
			"template_id":    {tid},
			"audience":       {"all"},
			"scheduled_date": {"2024-04-01"},
		}, "application/json")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var c models.Campaign
		if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if c.Status != models.CampaignScheduled {
			t.Errorf("status = %s, want scheduled", c.Status)
		}
	})

	t.Run("create campaign invalid", func(t *testing.T) {
		rec := postForm(t, h, "/communications/campaigns", url.Values{
			"template_id": {"missing"},
		}, "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp handlers.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if _, ok := resp.Fields["name"]; !ok {
			t.Errorf("expected a name field error, got %v", resp.Fields)
		}
	})

	t.Run("create campaign form error", func(t *testing.T) {
		rec := postForm(t, h, "/communications/campaigns", url.Values{
			"name":           {"Bad date"},
			"template_id":    {tid},
			"scheduled_date": {"tomorrow"},
		}, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Use YYYY-MM-DD") {
			t.Error("expected the date error on the page")
		}
	})

	t.Run("create template", func(t *testing.T) {
		rec := postForm(t, h, "/communications/templates", url.Values{
			"name":    {"Thanks"},
			"type":    {"custom"},
			"subject": {"Thanks {{name}}"},
			"content": {"See you at {{hackathon_name}}"},
		}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/communications?tab=templates&created=Thanks" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("preview template", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/communications/templates/"+tid+"/preview", nil)
		rec := do(t, h, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if strings.Contains(body, "<html") {
			t.Error("preview should be a fragment")
		}
		if !strings.Contains(body, "Jane Smith") {
			t.Error("expected the sample contact")
		}

		req.Header.Set("Accept", "application/json")
		rec = do(t, h, req)
		var resp map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if resp["id"] != tid {
			t.Errorf("id = %v", resp["id"])
		}
	})
}

func TestModeration(t *testing.T) {
	srv := setupTestServer(t, nil)
	h := srv.Handler()

	var posted models.ChatMessage
	t.Run("post json", func(t *testing.T) {
		rec := postForm(t, h, "/moderation/messages", url.Values{
			"channel": {"tech-help"},
			"message": {"Check the FAQ"},
		}, "application/json")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if err := json.NewDecoder(rec.Body).Decode(&posted); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if posted.User != models.ModeratorName || posted.Channel != "tech-help" {
			t.Errorf("unexpected message %+v", posted)
		}
	})

	t.Run("post json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/moderation/messages",
			strings.NewReader(`{"channel":"mentorship","message":"Mentors are online"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := do(t, h, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var msg models.ChatMessage
		if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if msg.Channel != "mentorship" || msg.Message != "Mentors are online" {
			t.Errorf("unexpected message %+v", msg)
		}
	})

	t.Run("post unknown channel", func(t *testing.T) {
		rec := postForm(t, h, "/moderation/messages", url.Values{
			"channel": {"zz1"},
			"message": {"hello"},
		}, "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("post empty form", func(t *testing.T) {
		rec := postForm(t, h, "/moderation/messages", url.Values{
			"channel": {"general"},
			"message": {"   "},
		}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		loc, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatal(err)
		}
		if loc.Query().Get("error") != models.ErrEmptyMessage.Error() || loc.Query().Get("channel") != "general" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/moderation/messages/"+posted.ID+"/flag", nil)
		req.Header.Set("Accept", "application/json")
		rec := do(t, h, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var msg models.ChatMessage
		json.NewDecoder(rec.Body).Decode(&msg)
		if !msg.Flagged {
			t.Error("message should be flagged")
		}

		req = httptest.NewRequest(http.MethodPost, "/moderation/messages/unknown/flag", nil)
		if rec := do(t, h, req); rec.Code != http.StatusNotFound {
			t.Errorf("unknown message status = %d, want 404", rec.Code)
		}
	})

	t.Run("action", func(t *testing.T) {
		rec := postForm(t, h, "/moderation/actions", url.Values{
			"channel": {"tech-help"},
			"type":    {"ban"},
			"user":    {models.ModeratorName},
			"reason":  {"testing"},
		}, "")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}

		page := do(t, h, httptest.NewRequest(http.MethodGet, "/moderation?channel=tech-help", nil)).Body.String()
		if strings.Contains(page, "Check the FAQ") {
			t.Error("banned user's messages should be removed")
		}
		if !strings.Contains(page, "testing") {
			t.Error("recent actions should list the ban")
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := postForm(t, h, "/moderation/actions", url.Values{
			"type": {"shout"},
			"user": {"Alex"},
		}, "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestModerationSlowMode(t *testing.T) {
	cfg := config.Default()
	cfg.Moderation.SlowModeInterval = time.Minute
	cfg.Moderation.SlowModeBurst = 1
	srv := setupTestServer(t, cfg)
	h := srv.Handler()

	form := url.Values{"channel": {"general"}, "message": {"hello"}}
	if rec := postForm(t, h, "/moderation/messages", form, "application/json"); rec.Code != http.StatusCreated {
		t.Fatalf("first post status = %d", rec.Code)
	}

	rec := postForm(t, h, "/moderation/messages", form, "application/json")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second post status = %d, want 429", rec.Code)
	}

	page := do(t, h, httptest.NewRequest(http.MethodGet, "/moderation", nil)).Body.String()
	if !strings.Contains(page, "slow mode") {
		t.Error("panel should show slow mode")
	}
}

func TestLiveFeed(t *testing.T) {
	srv := setupTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/moderation/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec := postForm(t, srv.Handler(), "/moderation/messages", url.Values{
		"channel": {"general"},
		"message": {"Welcome everyone"},
	}, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("post status = %d", rec.Code)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev struct {
		Type string             `json:"type"`
		Data models.ChatMessage `json:"data"`
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != live.EventMessage || ev.Data.Message != "Welcome everyone" {
		t.Errorf("unexpected event %+v", ev)
	}

	stats := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	var resp handlers.StatsResponse
	json.NewDecoder(stats.Body).Decode(&resp)
	if resp.LiveClients != 1 {
		t.Errorf("live_clients = %d, want 1", resp.LiveClients)
	}
}
