package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/catalog"
	"github.com/turtacn/OncoTerm/internal/infrastructure/storage/minio"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	InputPath     string
	HGNCBulkFile  string
	UseSnapshots  bool
	SaveSnapshots bool
}

// NewBuildCmd creates the "build" command: fetch the configured sources for
// the terms mentioned in an entries file and build the per-field
// dictionaries, without running enrichment.
func NewBuildCmd() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build ontology dictionaries from configured sources",
		Long:  "Build reads a literature entries file, collects the distinct terms per\nfield, fetches the configured sources (ChEMBL, HGNC, BioPortal) for those\nterms and reports the size of each built dictionary.",
		Example: `  oncoterm build --input entries.json
  oncoterm build --input entries.json --hgnc-bulk hgnc_complete_set.txt
  oncoterm build --input entries.json --save-snapshots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.InputPath, "input", "i", "", "literature entries JSON file (required)")
	f.StringVar(&opts.HGNCBulkFile, "hgnc-bulk", "", "HGNC bulk TSV file (overrides config)")
	f.BoolVar(&opts.UseSnapshots, "use-snapshots", false, "prefer persisted source snapshots over live fetches")
	f.BoolVar(&opts.SaveSnapshots, "save-snapshots", false, "persist fetched extracts as snapshots")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	logger := cliCtx.Logger

	builder, fallback, err := newLocalBuilder(cliCtx, opts)
	if err != nil {
		return err
	}

	ds := builder.Build(cmd.Context())

	report := buildReport{fallbackSize: fallback.Size()}
	for field, dict := range ds.Dictionaries {
		report.rows = append(report.rows, buildRow{Field: field, Entities: dict.Size()})
	}
	for field, buildErr := range ds.Failures {
		report.rows = append(report.rows, buildRow{Field: field, Err: buildErr})
		logger.Warn("dictionary build failed",
			logging.String("field", field.String()), logging.Err(buildErr))
	}
	sort.Slice(report.rows, func(i, j int) bool {
		return report.rows[i].Field < report.rows[j].Field
	})

	return PrintResult(cmd, report)
}

// newLocalBuilder assembles the dictionary builder the local commands share.
// It returns the builder plus the curated antigen fallback dictionary.
func newLocalBuilder(cliCtx *CLIContext, opts *BuildOptions) (*enrichment.Builder, *ontology.Dictionary, error) {
	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading entries file: %w", err)
	}
	entries, err := enrichment.ParseEntries(data)
	if err != nil {
		return nil, nil, err
	}

	srcCfg := cliCtx.Config.Sources
	if opts.HGNCBulkFile != "" {
		srcCfg.HGNC.BulkFile = opts.HGNCBulkFile
	}

	cat, err := catalog.New(srcCfg, catalog.Options{
		Terms: enrichment.SeedTerms(entries),
	}, cliCtx.Logger)
	if err != nil {
		return nil, nil, err
	}

	var store enrichment.SnapshotStore
	if opts.UseSnapshots || opts.SaveSnapshots {
		mc, err := minio.NewClient(&cliCtx.Config.MinIO, cliCtx.Logger)
		if err != nil {
			return nil, nil, err
		}
		store = minio.NewSnapshotStore(mc, cliCtx.Logger)
	}

	builder, err := enrichment.NewBuilder(cat.Extractors, store, enrichment.BuilderConfig{
		UseSnapshots:  opts.UseSnapshots,
		SaveSnapshots: opts.SaveSnapshots,
	}, cliCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	return builder, cat.AntigenFallback, nil
}

type buildRow struct {
	Field    ontology.FieldType
	Entities int
	Err      error
}

type buildReport struct {
	rows         []buildRow
	fallbackSize int
}

func (r buildReport) MarshalJSON() ([]byte, error) {
	type jsonRow struct {
		Field    ontology.FieldType `json:"field"`
		Entities int                `json:"entities"`
		Error    string             `json:"error,omitempty"`
	}
	out := struct {
		Dictionaries    []jsonRow `json:"dictionaries"`
		AntigenFallback int       `json:"antigen_fallback_entities"`
	}{AntigenFallback: r.fallbackSize}
	for _, row := range r.rows {
		jr := jsonRow{Field: row.Field, Entities: row.Entities}
		if row.Err != nil {
			jr.Error = row.Err.Error()
		}
		out.Dictionaries = append(out.Dictionaries, jr)
	}
	return json.Marshal(out)
}

func (r buildReport) TableHeaders() []string {
	return []string{"FIELD", "ENTITIES", "STATUS"}
}

func (r buildReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.rows)+1)
	for _, row := range r.rows {
		status := "ok"
		if row.Err != nil {
			status = "failed: " + row.Err.Error()
		}
		rows = append(rows, []string{row.Field.String(), strconv.Itoa(row.Entities), status})
	}
	rows = append(rows, []string{"antigen (fallback)", strconv.Itoa(r.fallbackSize), "ok"})
	return rows
}

func (r buildReport) String() string {
	var sb strings.Builder
	for _, row := range r.rows {
		if row.Err != nil {
			fmt.Fprintf(&sb, "%s: build failed: %v\n", row.Field, row.Err)
			continue
		}
		fmt.Fprintf(&sb, "%s: %d entities\n", row.Field, row.Entities)
	}
	fmt.Fprintf(&sb, "antigen fallback (curated): %d entities", r.fallbackSize)
	return sb.String()
}

//Personal.AI order the ending
