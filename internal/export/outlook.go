package export

import (
	"fmt"
	"strings"

	"github.com/foxzi/hackflow/internal/contacts"
	"github.com/foxzi/hackflow/internal/template"
)

// scriptColumns are the contact fields written to the script's data array.
// The generated Replace calls index into each row by position.
var scriptColumns = []string{"name", "email", "company", "position"}

// OutlookScript generates a VBA macro skeleton that opens one draft per
// contact in Outlook. The output is best effort and not checked against a
// VBA parser.
func OutlookScript(list []contacts.Contact, tmpl *template.Template) string {
	rows := make([]string, 0, len(list))
	for _, c := range list {
		values := make([]string, len(scriptColumns))
		for i, col := range scriptColumns {
			values[i] = vbaString(c[col])
		}
		rows = append(rows, "        Array("+strings.Join(values, ", ")+")")
	}

	return `
Sub SendPersonalizedEmails()
    ' This VBA script can be run in Outlook to send personalized emails
    ' Make sure to enable macros in Outlook

    Dim olApp As Object
    Dim olMail As Object
    Dim i As Integer

    Set olApp = CreateObject("Outlook.Application")

    ' Email data array
    Dim emailData As Variant
    emailData = Array( _
` + strings.Join(rows, ", _\n") + ` _
    )

    For i = 0 To UBound(emailData)
        Set olMail = olApp.CreateItem(0) ' olMailItem

        With olMail
            .To = emailData(i)(1) ' Email
            .Subject = ` + vbaReplace(tmpl.Subject) + `
            .Body = ` + vbaReplace(tmpl.Body) + `
            .Display ' Use .Send to send automatically, .Display to review first
        End With

        Set olMail = Nothing
    Next i

    Set olApp = Nothing
    MsgBox "Email generation complete!"
End Sub`
}

// vbaReplace wraps a template literal in nested Replace calls, one per
// script column.
func vbaReplace(text string) string {
	expr := vbaString(text)
	for i, col := range scriptColumns {
		expr = fmt.Sprintf("Replace(%s, %s, emailData(i)(%d))", expr, vbaString(template.Token(col)), i)
	}
	return expr
}

// vbaString quotes s as a VBA string literal. Line breaks become vbCrLf.
func vbaString(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", `" & vbCrLf & "`)
	return `"` + s + `"`
}
