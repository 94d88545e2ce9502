package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/engine"
)

var (
	extractTimezone string
	extractLocale   string
)

func init() {
	extractCmd.Flags().StringVar(&extractTimezone, "tz", "", "IANA timezone for due dates (default from config)")
	extractCmd.Flags().StringVar(&extractLocale, "locale", "", "date locale for NN/NN/YYYY dates: US or EU (default from config)")

	reparseCmd.Flags().StringVar(&extractTimezone, "tz", "", "IANA timezone for the date (default from config)")
	reparseCmd.Flags().StringVar(&extractLocale, "locale", "", "date locale: US or EU (default from config)")
}

// extractCmd extracts installments from a file or stdin
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract installments from a file or stdin",
	Long: `Extract BNPL installments from pasted email text and print the result as JSON.

Examples:
  # Extract from a saved email
  payplan extract klarna.txt

  # Extract from stdin with European dates
  pbpaste | payplan extract --locale EU -

  # Use a specific timezone
  payplan extract --tz America/New_York affirm.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// reparseCmd re-reads one raw date under a locale
var reparseCmd = &cobra.Command{
	Use:   "reparse <raw-date>",
	Short: "Re-read a raw due date under a date locale",
	Long: `Parse a raw due date as it appeared in an email and print the normalized date.

Examples:
  # Read 03/04/2026 as 3 April 2026
  payplan reparse --locale EU 03/04/2026`,
	Args: cobra.ExactArgs(1),
	RunE: runReparse,
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return content, nil
}

// parseLocaleFlag returns "" for an unset flag so the configured default
// applies.
func parseLocaleFlag(s string) (dates.Locale, error) {
	if s == "" {
		return "", nil
	}
	return dates.ParseLocale(s)
}

func runExtract(cmd *cobra.Command, args []string) error {
	locale, err := parseLocaleFlag(extractLocale)
	if err != nil {
		return err
	}
	content, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := newApp(ctx, appOptions{logToStderr: true})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	res, err := rt.engine.Extract(ctx, engine.Text(string(content)), extractTimezone, engine.Options{DateLocale: locale})
	if err != nil {
		return err
	}
	return outputJSON(cmd.OutOrStdout(), res)
}

// ReparseOutput is the JSON printed by the reparse command.
type ReparseOutput struct {
	DueDate   string `json:"dueDate"`
	RawText   string `json:"rawText"`
	Ambiguous bool   `json:"ambiguous"`
	Instant   string `json:"instant"`
}

func runReparse(cmd *cobra.Command, args []string) error {
	locale, err := parseLocaleFlag(extractLocale)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := newApp(ctx, appOptions{logToStderr: true})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	d, err := rt.engine.ReparseDate(ctx, args[0], extractTimezone, locale)
	if err != nil {
		return err
	}
	return outputJSON(cmd.OutOrStdout(), ReparseOutput{
		DueDate:   d.ISODate,
		RawText:   d.RawText,
		Ambiguous: d.Ambiguous,
		Instant:   d.RFC3339(),
	})
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
