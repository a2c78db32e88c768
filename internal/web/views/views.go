package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	mergetmpl "github.com/foxzi/hackflow/internal/template"
	"github.com/foxzi/hackflow/internal/web/models"
)

//go:embed *.html
var templatesFS embed.FS

type Engine struct {
	templates map[string]*template.Template
}

func New() (*Engine, error) {
	e := &Engine{
		templates: make(map[string]*template.Template),
	}

	// Parse layout
	layoutTmpl, err := template.New("layout.html").Funcs(Funcs()).ParseFS(templatesFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	// Parse each page template
	entries, err := fs.ReadDir(templatesFS, ".")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "layout.html" {
			continue
		}

		name := entry.Name()
		baseName := name[:len(name)-len(filepath.Ext(name))]

		// Clone layout and parse page template
		tmpl, err := layoutTmpl.Clone()
		if err != nil {
			return nil, err
		}

		if _, err := tmpl.ParseFS(templatesFS, name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		e.templates[baseName] = tmpl
	}

	return e, nil
}

// Render executes a page inside the layout. Output is buffered so a failing
// template never leaves a half-written page.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	return e.execute(w, name, "layout.html", data)
}

// RenderPartial renders only the page's "content" block, without layout
func (e *Engine) RenderPartial(w io.Writer, name string, data any) error {
	return e.execute(w, name, "content", data)
}

func (e *Engine) execute(w io.Writer, name, block string, data any) error {
	tmpl, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Funcs returns the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":     formatDate,
		"clock":    func(t time.Time) string { return t.Format("3:04 PM") },
		"datetime": func(t time.Time) string { return t.Format("Jan 2, 15:04") },
		"isoDate":  func(t time.Time) string { return t.Format("2006-01-02") },
		"percent":  func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
		"minutes":  func(d time.Duration) int { return int(d / time.Minute) },
		"token":    mergetmpl.Token,
		"join":     strings.Join,
		"slug":     models.Slug,
		"icon":     platformIcon,
		"add":      func(a, b int) int { return a + b },
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

func platformIcon(p models.Platform) string {
	switch p {
	case models.PlatformDiscord:
		return "🎮"
	case models.PlatformSlack:
		return "💬"
	case models.PlatformZoom:
		return "📹"
	case models.PlatformTeams:
		return "👥"
	case models.PlatformInternal:
		return "🏠"
	default:
		return "💻"
	}
}
