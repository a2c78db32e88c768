package template

// Template is a mail-merge template. Subject and Body may contain
// {{key}} placeholders.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RenderResult contains rendered template output
type RenderResult struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
