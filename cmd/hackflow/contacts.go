package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/hackflow/internal/export"
)

var contactsSampleOutput string

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Contacts CSV commands",
}

var contactsSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the sample contacts CSV",
	RunE:  runContactsSample,
}

var contactsParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Show the contacts a CSV file yields",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsParse,
}

func init() {
	contactsSampleCmd.Flags().StringVarP(&contactsSampleOutput, "output", "o", "", "write to file instead of stdout")

	contactsCmd.AddCommand(contactsSampleCmd, contactsParseCmd)
	rootCmd.AddCommand(contactsCmd)
}

func runContactsSample(cmd *cobra.Command, args []string) error {
	sample := export.SampleFile()
	if contactsSampleOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(sample.Data))
		return nil
	}
	if err := os.WriteFile(contactsSampleOutput, sample.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", contactsSampleOutput)
	return nil
}

func runContactsParse(cmd *cobra.Command, args []string) error {
	result, err := readContactsFile(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Len() == 0 {
		fmt.Fprintf(out, "No valid contacts found (%d rows skipped).\n", result.Skipped)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := make([]string, len(result.Fields))
	for i, f := range result.Fields {
		header[i] = strings.ToUpper(f)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, c := range result.Contacts {
		row := make([]string, len(result.Fields))
		for i, f := range result.Fields {
			row[i] = c[f]
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d contacts, %d skipped of %d rows\n", result.Len(), result.Skipped, result.Total)
	return nil
}
