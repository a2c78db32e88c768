// Package export builds the mail-merge download files: a rendered email
// bundle, an Outlook script skeleton, a contacts CSV and a Word merge
// template.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foxzi/hackflow/internal/contacts"
	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/template"
)

// Format identifies a generated download.
type Format string

const (
	FormatBundle  Format = "bundle"
	FormatOutlook Format = "outlook"
	FormatCSV     Format = "csv"
	FormatWord    Format = "word"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatWord, FormatCSV, FormatOutlook, FormatBundle}

var ErrUnknownFormat = errors.New("unknown export format")

const divider = 80

// File is a generated download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Generator produces download files.
type Generator struct {
	engine *template.Engine
	now    func() time.Time
}

// NewGenerator creates a generator using engine for rendering.
func NewGenerator(engine *template.Engine) *Generator {
	return &Generator{engine: engine, now: time.Now}
}

// Generate builds the file for format.
func (g *Generator) Generate(format Format, result *contacts.Result, tmpl *template.Template) (*File, error) {
	var file *File
	switch format {
	case FormatBundle:
		file = &File{
			Name:        fmt.Sprintf("hackathon_emails_%s.txt", g.now().Format("2006-01-02")),
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(g.EmailBundle(result.Contacts, tmpl)),
		}
		metrics.ObserveRendered(len(result.Contacts))
	case FormatOutlook:
		file = &File{
			Name:        "outlook_mail_merge.vbs",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(OutlookScript(result.Contacts, tmpl)),
		}
	case FormatCSV:
		file = &File{
			Name:        "contacts_for_outlook.csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        []byte(ContactsCSV(result)),
		}
	case FormatWord:
		file = &File{
			Name:        "word_mail_merge_template.txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(WordMergeTemplate(tmpl)),
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	metrics.ObserveExport(string(format))
	return file, nil
}

// EmailBundle renders one email per contact, each followed by a divider line.
func (g *Generator) EmailBundle(list []contacts.Contact, tmpl *template.Template) string {
	entries := make([]string, 0, len(list))
	for i, c := range list {
		rendered := g.engine.Render(tmpl, c)

		var b strings.Builder
		fmt.Fprintf(&b, "\nEmail %d:\n", i+1)
		fmt.Fprintf(&b, "To: %s <%s>\n", c.Name(), c.Email())
		fmt.Fprintf(&b, "Subject: %s\n\n", rendered.Subject)
		b.WriteString(rendered.Body)
		b.WriteString("\n\n")
		b.WriteString(strings.Repeat("=", divider))
		b.WriteString("\n")
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n")
}

// ContactsCSV re-exports contacts with a header of result.Fields. Every value
// is quoted.
func ContactsCSV(result *contacts.Result) string {
	var b strings.Builder
	b.WriteString(strings.Join(result.Fields, ","))
	for _, c := range result.Contacts {
		b.WriteString("\n")
		for i, field := range result.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"` + strings.ReplaceAll(c[field], `"`, `""`) + `"`)
		}
	}
	return b.String()
}

// WordMergeTemplate converts the template to «field» merge syntax and wraps
// it with mail merge instructions.
func WordMergeTemplate(tmpl *template.Template) string {
	return `
MAIL MERGE TEMPLATE FOR MICROSOFT WORD

Subject: ` + template.ToMergeFields(tmpl.Subject) + `

To: «name» <«email»>

` + template.ToMergeFields(tmpl.Body) + `

INSTRUCTIONS:
1. Save this as a .docx file
2. In Word, go to Mailings > Start Mail Merge > Email Messages
3. Select Recipients > Use an Existing List
4. Choose the CSV file (contacts_for_outlook.csv)
5. Insert merge fields where you see «field_name»
6. Preview your results
7. Complete the merge to send emails

Note: Make sure Outlook is configured as your default email client.
`
}

const sampleCSV = "name,email,company,position\n" +
	"John Doe,john@example.com,Tech Corp,Developer\n" +
	"Jane Smith,jane@example.com,StartupXYZ,Designer"

// SampleCSV returns the contacts template offered for download.
func SampleCSV() string {
	return sampleCSV
}

// SampleFile wraps SampleCSV as a download.
func SampleFile() *File {
	return &File{
		Name:        "email_template.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(sampleCSV),
	}
}
