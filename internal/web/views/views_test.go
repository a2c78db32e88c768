package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/foxzi/hackflow/internal/web/models"
)

func TestNewParsesEveryPage(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pages := []string{
		"home", "dashboard", "participants", "mailing",
		"communications", "template_preview", "moderation", "error",
	}
	for _, name := range pages {
		if _, ok := e.templates[name]; !ok {
			t.Errorf("page %q not loaded", name)
		}
	}
	if _, ok := e.templates["layout"]; ok {
		t.Error("layout should not be a standalone page")
	}
}

func TestRenderErrorPage(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := map[string]any{
		"Title": "Not Found",
		"Nav":   "",
		"Site":  "HackFlow",
		"Flash": "",
		"Error": "not found",
		"Data":  404,
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, "error", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<title>Not Found - HackFlow</title>", "<h1>404</h1>", `class="alert">not found`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderPartialSkipsLayout(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := map[string]any{
		"Template": map[string]string{"Name": "Welcome"},
		"Subject":  "Hi <Jane>",
		"Body":     "Body",
		"Sample":   map[string]string{"name": "Jane", "email": "jane@example.com"},
		"Missing":  []string{"team"},
	}

	var buf bytes.Buffer
	if err := e.RenderPartial(&buf, "template_preview", data); err != nil {
		t.Fatalf("RenderPartial() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<html") {
		t.Error("partial should not include the layout")
	}
	if !strings.Contains(out, "Hi &lt;Jane&gt;") {
		t.Errorf("subject not escaped: %s", out)
	}
	if !strings.Contains(out, "Unknown variables: team") {
		t.Errorf("missing variables not shown: %s", out)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, "nope", nil); err == nil {
		t.Error("expected error for unknown page")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()
	at := time.Date(2024, time.March, 15, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"date", funcs["date"].(func(time.Time) string)(at), "Mar 15, 2024"},
		{"date zero", funcs["date"].(func(time.Time) string)(time.Time{}), "-"},
		{"clock", funcs["clock"].(func(time.Time) string)(at), "2:05 PM"},
		{"isoDate", funcs["isoDate"].(func(time.Time) string)(at), "2024-03-15"},
		{"percent", funcs["percent"].(func(float64) string)(68.26), "68.3%"},
		{"icon", funcs["icon"].(func(models.Platform) string)(models.PlatformZoom), "📹"},
		{"icon fallback", funcs["icon"].(func(models.Platform) string)(models.PlatformYouTube), "💻"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
