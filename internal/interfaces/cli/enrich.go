package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
)

// EnrichOptions holds flags for the enrich command.
type EnrichOptions struct {
	Build      BuildOptions
	OutputPath string
}

// NewEnrichCmd creates the "enrich" command: a full local pipeline run that
// builds dictionaries and resolves every mention in the entries file.
func NewEnrichCmd() *cobra.Command {
	opts := &EnrichOptions{}

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich a literature entries file with ontology records",
		Long:  "Enrich builds the dictionaries for the terms in the entries file, resolves\nevery drug mention through the match cascade and writes the enriched\nentities as JSON.",
		Example: `  oncoterm enrich --input entries.json --out enriched.json
  oncoterm enrich --input entries.json --use-snapshots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Build.InputPath, "input", "i", "", "literature entries JSON file (required)")
	f.StringVar(&opts.Build.HGNCBulkFile, "hgnc-bulk", "", "HGNC bulk TSV file (overrides config)")
	f.BoolVar(&opts.Build.UseSnapshots, "use-snapshots", false, "prefer persisted source snapshots over live fetches")
	f.BoolVar(&opts.Build.SaveSnapshots, "save-snapshots", false, "persist fetched extracts as snapshots")
	f.StringVar(&opts.OutputPath, "out", "", "write the enrichment result to this file (default: stdout)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runEnrich(cmd *cobra.Command, opts *EnrichOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.Build.InputPath)
	if err != nil {
		return fmt.Errorf("reading entries file: %w", err)
	}
	entries, err := enrichment.ParseEntries(data)
	if err != nil {
		return err
	}

	builder, fallback, err := newLocalBuilder(cliCtx, &opts.Build)
	if err != nil {
		return err
	}

	svc, err := enrichment.NewService(builder, fallback, nil, nil, nil, enrichment.ServiceConfig{
		Pipeline: cliCtx.Config.Pipeline,
		Builder: enrichment.BuilderConfig{
			UseSnapshots:  opts.Build.UseSnapshots,
			SaveSnapshots: opts.Build.SaveSnapshots,
		},
	}, cliCtx.Logger)
	if err != nil {
		return err
	}

	if _, err := svc.Prepare(cmd.Context()); err != nil {
		return err
	}
	result, err := svc.EnrichEntries(cmd.Context(), entries)
	if err != nil {
		return err
	}

	if err := writeRunResult(opts.OutputPath, cmd, result); err != nil {
		return err
	}
	if opts.OutputPath == "" {
		// The full result already went to stdout.
		return nil
	}

	PrintSuccess(cmd, fmt.Sprintf("enriched %d entities into %s", result.Summary.Entities, opts.OutputPath))
	return PrintResult(cmd, summaryReport{summary: result.Summary})
}

func writeRunResult(path string, cmd *cobra.Command, result *enrichment.RunResult) error {
	if path == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// summaryReport renders a run summary as text or table.
type summaryReport struct {
	summary enrichment.Summary
}

func (r summaryReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.summary) }

func (r summaryReport) TableHeaders() []string {
	return []string{"FIELD", "TOTAL", "MATCH RATE"}
}

func (r summaryReport) TableRows() [][]string {
	fields := make([]string, 0, len(r.summary.Fields))
	for field := range r.summary.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		rep := r.summary.Fields[field]
		rows = append(rows, []string{
			field,
			strconv.Itoa(rep.Total),
			fmt.Sprintf("%.1f%%", rep.MatchRate*100),
		})
	}
	return rows
}

func (r summaryReport) String() string {
	out := fmt.Sprintf("entities: %d", r.summary.Entities)
	fields := make([]string, 0, len(r.summary.Fields))
	for field := range r.summary.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		rep := r.summary.Fields[field]
		out += fmt.Sprintf("\n%s: %d terms, %.1f%% matched", field, rep.Total, rep.MatchRate*100)
	}
	return out
}

//Personal.AI order the ending
