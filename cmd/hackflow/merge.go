package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/foxzi/hackflow/internal/contacts"
	"github.com/foxzi/hackflow/internal/export"
	"github.com/foxzi/hackflow/internal/template"
	"github.com/foxzi/hackflow/internal/web/content"
)

var (
	mergeContacts string
	mergeSubject  string
	mergeBodyFile string
	mergeFormat   string
	mergeOutput   string
)

var errNoContacts = errors.New("no valid contacts (name and email are required)")

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Generate a mail merge download from a contacts CSV",
	Long: `Render the email template for every contact and write one of the
downloads: bundle (all emails as text), outlook (VBA script), csv (contacts
re-export) or word (merge template). Without --subject or --body-file the
default hackathon invitation is used.`,
	Example: `  hackflow merge --contacts people.csv --format bundle
  hackflow merge --contacts people.csv --body-file body.txt --format outlook -o -`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeContacts, "contacts", "", "contacts CSV file (- for stdin)")
	mergeCmd.Flags().StringVar(&mergeSubject, "subject", "", "subject template")
	mergeCmd.Flags().StringVar(&mergeBodyFile, "body-file", "", "file containing the body template")
	mergeCmd.Flags().StringVar(&mergeFormat, "format", string(export.FormatBundle), "download format (bundle, outlook, csv, word)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "output path, - for stdout (default: the download's file name)")
	mergeCmd.MarkFlagRequired("contacts")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(mergeFormat)
	if err != nil {
		return err
	}

	result, err := readContactsFile(cmd, mergeContacts)
	if err != nil {
		return err
	}
	if format != export.FormatWord && result.Len() == 0 {
		return errNoContacts
	}

	tmpl, err := mergeTemplate()
	if err != nil {
		return err
	}

	file, err := export.NewGenerator(template.NewEngine()).Generate(format, result, tmpl)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if mergeOutput == "-" {
		_, err := cmd.OutOrStdout().Write(file.Data)
		return err
	}

	path := mergeOutput
	if path == "" {
		path = file.Name
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d contacts, %d skipped)\n", path, result.Len(), result.Skipped)
	return nil
}

// mergeTemplate starts from the default invitation and overrides the parts
// given on the command line
func mergeTemplate() (*template.Template, error) {
	tmpl := content.Invitation()
	if mergeSubject != "" {
		tmpl.Subject = mergeSubject
	}
	if mergeBodyFile != "" {
		data, err := os.ReadFile(mergeBodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		tmpl.Body = string(data)
	}
	return tmpl, nil
}

func readContactsFile(cmd *cobra.Command, path string) (*contacts.Result, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open contacts: %w", err)
		}
		defer f.Close()
		r = f
	}
	return contacts.ParseReader(r)
}
