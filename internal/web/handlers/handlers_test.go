package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/foxzi/hackflow/internal/export"
	"github.com/foxzi/hackflow/internal/web/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("hackathon x: %w", models.ErrNotFound), http.StatusNotFound},
		{"slow mode", fmt.Errorf("%w: retry in 5s", models.ErrSlowMode), http.StatusTooManyRequests},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"validation", &models.ValidationError{Kind: models.ErrInvalidHackathon, Fields: map[string]string{"name": "required"}}, http.StatusBadRequest},
		{"invalid input", models.ErrInvalidInput, http.StatusBadRequest},
		{"empty message", models.ErrEmptyMessage, http.StatusBadRequest},
		{"too long", models.ErrMessageTooLong, http.StatusBadRequest},
		{"unknown format", export.ErrUnknownFormat, http.StatusBadRequest},
		{"no contacts", errNoContacts, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   bool
	}{
		{"accept json", "Accept", "application/json", true},
		{"json body", "Content-Type", "application/json; charset=utf-8", true},
		{"browser", "Accept", "text/html,application/xhtml+xml", false},
		{"form", "Content-Type", "application/x-www-form-urlencoded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r.Header.Set(tt.header, tt.value)
			if got := wantsJSON(r); got != tt.want {
				t.Errorf("wantsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"10.0.0.7", "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if got := clientKey(r); got != tt.want {
				t.Errorf("clientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSendFile(t *testing.T) {
	rec := httptest.NewRecorder()
	sendFile(rec, export.SampleFile())

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="email_template.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != export.SampleCSV() {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestParseFormJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string][]string
		wantErr bool
	}{
		{
			name: "scalars",
			body: `{"channel":"general","message":"hi","max_participants":50,"required":true}`,
			want: map[string][]string{
				"channel":          {"general"},
				"message":          {"hi"},
				"max_participants": {"50"},
				"required":         {"true"},
			},
		},
		{
			name: "arrays repeat the key",
			body: `{"prize_place":["1st","2nd"]}`,
			want: map[string][]string{"prize_place": {"1st", "2nd"}},
		},
		{name: "nested object", body: `{"phase":{"start":"x"}}`, wantErr: true},
		{name: "not an object", body: `["a"]`, wantErr: true},
		{name: "malformed", body: `{"a":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			err := (&Handlers{}).parseForm(r)
			if tt.wantErr {
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("parseForm() error = %v, want errBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseForm() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, map[string][]string(r.PostForm)); diff != "" {
				t.Errorf("form mismatch (-want +got):\n%s", diff)
			}
			if r.FormValue("channel") != r.PostForm.Get("channel") {
				t.Error("FormValue should read the decoded body")
			}
		})
	}
}
