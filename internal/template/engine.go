package template

import (
	"regexp"
	"sort"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Engine renders templates with data
type Engine struct{}

// NewEngine creates a new template engine
func NewEngine() *Engine {
	return &Engine{}
}

// Render renders subject and body with provided data.
// Values are inserted verbatim; placeholders without a value stay literal.
func (e *Engine) Render(tmpl *Template, data map[string]string) *RenderResult {
	r := replacer(data)
	return &RenderResult{
		Subject: r.Replace(tmpl.Subject),
		Body:    r.Replace(tmpl.Body),
	}
}

// RenderText renders a single template string.
func (e *Engine) RenderText(text string, data map[string]string) string {
	return replacer(data).Replace(text)
}

// Variables returns the placeholder keys used by the template, subject first,
// in order of first appearance.
func (e *Engine) Variables(tmpl *Template) []string {
	return Placeholders(tmpl.Subject + "\n" + tmpl.Body)
}

// Missing returns the template variables that have no entry in data.
func (e *Engine) Missing(tmpl *Template, data map[string]string) []string {
	var missing []string
	for _, key := range e.Variables(tmpl) {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Placeholders returns the distinct {{key}} names in text in order of first
// appearance.
func Placeholders(text string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		keys = append(keys, m[1])
	}
	return keys
}

// ToMergeFields converts {{key}} placeholders to «key» merge fields.
func ToMergeFields(text string) string {
	return placeholderRe.ReplaceAllString(text, "«$1»")
}

// Token returns the placeholder token for key.
func Token(key string) string {
	return "{{" + key + "}}"
}

// replacer substitutes every token in one left-to-right pass, so inserted
// values are never rescanned. Keys are ordered longest first: a key that
// itself contains "}" could otherwise make one token a prefix of another.
func replacer(data map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, Token(key), data[key])
	}
	return strings.NewReplacer(pairs...)
}
