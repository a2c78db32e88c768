// Package contacts parses mail-merge contact lists from comma-separated text.
package contacts

import (
	"fmt"
	"io"
	"strings"
)

// Required field names. A row missing either value is dropped.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// Contact maps a lower-cased column name to its value.
// It always carries non-empty FieldName and FieldEmail values.
type Contact map[string]string

// Name returns the contact's name.
func (c Contact) Name() string { return c[FieldName] }

// Email returns the contact's email address.
func (c Contact) Email() string { return c[FieldEmail] }

// Result holds the contacts parsed from one upload.
type Result struct {
	// Fields lists column names in export order: name, email, then the
	// remaining header columns in the order they appeared.
	Fields   []string  `json:"fields"`
	Contacts []Contact `json:"contacts"`
	// Total counts non-empty data rows, Skipped the rows that were dropped.
	Total   int `json:"total"`
	Skipped int `json:"skipped"`
}

// Len returns the number of retained contacts.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Contacts)
}

// ExtraFields returns the columns other than name and email.
func (r *Result) ExtraFields() []string {
	var extra []string
	for _, f := range r.Fields {
		if f != FieldName && f != FieldEmail {
			extra = append(extra, f)
		}
	}
	return extra
}

// Parse splits text into contacts. The first non-empty line is the header
// row. Values are split on commas with no quote handling, so a value cannot
// contain a comma. Rows without a name or email are silently skipped. A
// leading byte order mark is ignored.
func Parse(text string) *Result {
	result := &Result{Contacts: []Contact{}}
	text = strings.TrimPrefix(text, "\ufeff")

	var headers []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if headers == nil {
			headers = splitLine(line)
			for i, h := range headers {
				headers[i] = strings.ToLower(h)
			}
			result.Fields = orderFields(headers)
			continue
		}

		result.Total++

		values := splitLine(line)
		contact := Contact{FieldName: "", FieldEmail: ""}
		for i, header := range headers {
			if i < len(values) {
				contact[header] = values[i]
			} else {
				contact[header] = ""
			}
		}

		if contact.Name() == "" || contact.Email() == "" {
			result.Skipped++
			continue
		}
		result.Contacts = append(result.Contacts, contact)
	}

	if result.Fields == nil {
		result.Fields = []string{FieldName, FieldEmail}
	}

	return result
}

// ParseReader reads all of r and parses it with Parse.
func ParseReader(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}
	return Parse(string(data)), nil
}

func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// orderFields puts name and email first and drops duplicate headers.
func orderFields(headers []string) []string {
	fields := []string{FieldName, FieldEmail}
	seen := map[string]bool{FieldName: true, FieldEmail: true}
	for _, h := range headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		fields = append(fields, h)
	}
	return fields
}
