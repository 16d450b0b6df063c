package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
)

type exportFlags struct {
	pairFlags
	format string
	output string
}

type exporter struct {
	store  ports.CareerStore
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export candidate teammate pairs to file",
		Long:  "Exports the candidate pairs of the last build to JSON, CSV, or markdown format.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	addPairFlags(cmd, &flags.pairFlags, DefaultExportLimit)

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	filter := flags.filter()
	if filter.Category != "" && !filter.Category.IsValid() {
		return fmt.Errorf("invalid category %q, valid categories: %v", filter.Category, entities.AllCategories)
	}

	ctx := cmd.Context()

	return withStore(ctx, func(store ports.CareerStore) error {
		e := &exporter{
			store:  store,
			format: flags.format,
			output: flags.output,
		}

		pairs, err := e.fetchPairs(ctx, filter)
		if err != nil {
			return err
		}

		return e.export(pairs)
	})
}

func (e *exporter) fetchPairs(ctx context.Context, filter ports.PairFilter) ([]entities.CandidatePair, error) {
	pairs, err := e.store.FindPairs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing pairs: %w", err)
	}

	if len(pairs) == 0 {
		return nil, errors.New("no pairs found to export (run 'cleva build' first)")
	}

	return pairs, nil
}

func (e *exporter) export(pairs []entities.CandidatePair) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := e.formatPairs(w, pairs); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Printf("Exported %d pairs to %s\n", len(pairs), e.output)
	}

	return nil
}

func (e *exporter) formatPairs(w io.Writer, pairs []entities.CandidatePair) error {
	switch e.format {
	case "json":
		return formatJSON(w, pairs)
	case "csv":
		return formatCSV(w, pairs)
	case "markdown":
		return formatMarkdown(w, pairs)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

type exportMember struct {
	ID        entities.EntityID `json:"id"`
	Name      string            `json:"name"`
	Primary   string            `json:"primary_name,omitempty"`
	StartYear *int              `json:"start_year"`
	EndYear   *int              `json:"end_year"`
}

type exportPair struct {
	Group     entities.EntityID `json:"group_id"`
	GroupName string            `json:"group_name"`
	Category  entities.Category `json:"category"`
	MemberA   exportMember      `json:"member_a"`
	MemberB   exportMember      `json:"member_b"`
	Localized bool              `json:"fully_localized"`
}

func formatJSON(w io.Writer, pairs []entities.CandidatePair) error {
	exportPairs := make([]exportPair, 0, len(pairs))
	for _, p := range pairs {
		exportPairs = append(exportPairs, exportPair{
			Group:     p.GroupID,
			GroupName: p.GroupName.DisplayName(),
			Category:  p.Category,
			MemberA:   newExportMember(p.MemberA, p.NameA, p.IntervalA),
			MemberB:   newExportMember(p.MemberB, p.NameB, p.IntervalB),
			Localized: p.FullyLocalized(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportPairs)
}

func newExportMember(id entities.EntityID, name entities.NameRecord, iv entities.Interval) exportMember {
	return exportMember{
		ID:        id,
		Name:      name.DisplayName(),
		Primary:   name.PrimaryName,
		StartYear: iv.Start,
		EndYear:   iv.End,
	}
}

func formatCSV(w io.Writer, pairs []entities.CandidatePair) error {
	writer := csv.NewWriter(w)

	header := []string{
		"group_id", "group_name", "category",
		"member_a", "name_a", "start_a", "end_a",
		"member_b", "name_b", "start_b", "end_b",
		"fully_localized",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range pairs {
		row := []string{
			string(p.GroupID),
			p.GroupName.DisplayName(),
			string(p.Category),
			string(p.MemberA),
			p.NameA.DisplayName(),
			yearString(p.IntervalA.Start),
			yearString(p.IntervalA.End),
			string(p.MemberB),
			p.NameB.DisplayName(),
			yearString(p.IntervalB.Start),
			yearString(p.IntervalB.End),
			fmt.Sprint(p.FullyLocalized()),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, pairs []entities.CandidatePair) error {
	if _, err := fmt.Fprintf(w, "# Candidate Teammates\n\nTotal: %d pairs\n\n", len(pairs)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Group | Category | Member A | Years A | Member B | Years B |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|-------|----------|----------|---------|----------|---------|\n"); err != nil {
		return err
	}

	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			escapeMarkdown(p.GroupName.DisplayName()),
			p.Category,
			escapeMarkdown(p.NameA.DisplayName()),
			formatYears(p.IntervalA.Start, p.IntervalA.End, p.IntervalA.End == nil),
			escapeMarkdown(p.NameB.DisplayName()),
			formatYears(p.IntervalB.Start, p.IntervalB.End, p.IntervalB.End == nil),
		); err != nil {
			return err
		}
	}

	return nil
}

func yearString(y *int) string {
	if y == nil {
		return ""
	}
	return fmt.Sprint(*y)
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
