package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/OncoTerm/pkg/errors"
	"github.com/turtacn/OncoTerm/pkg/types/ontology"
)

// NewReportCmd creates the "report" command group, which queries a running
// API server through the Go client.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Query enrichment reports from the API server",
	}

	cmd.AddCommand(
		newReportRunCmd(),
		newReportUnknownsCmd(),
		newReportStatusCmd(),
	)

	return cmd
}

func newReportRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "run <run-id>",
		Short:   "Show the summary of one enrichment run",
		Args:    cobra.ExactArgs(1),
		Example: "  oncoterm report run 4f1c9e7a-0b2d-47c8-9a3e-6c2f8f0d1a55",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Client == nil {
				return errors.Internal("API client not configured; pass --server")
			}

			run, err := cliCtx.Client.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, runReport{run: run})
		},
	}
}

func newReportUnknownsCmd() *cobra.Command {
	var (
		field string
		limit int
	)

	cmd := &cobra.Command{
		Use:     "unknowns",
		Short:   "List unresolved terms for a field type",
		Example: "  oncoterm report unknowns --field antigen --limit 50",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Client == nil {
				return errors.Internal("API client not configured; pass --server")
			}

			resp, err := cliCtx.Client.UnknownTerms(cmd.Context(), ontology.FieldType(field), limit)
			if err != nil {
				return err
			}
			return PrintResult(cmd, unknownsReport{resp: resp})
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "field type (drug, antigen, disease, payload, linker)")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of terms")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func newReportStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dictionary readiness of the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Client == nil {
				return errors.Internal("API client not configured; pass --server")
			}

			status, err := cliCtx.Client.Status(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, statusReport{status: status})
		},
	}
}

type runReport struct {
	run *ontology.RunResponse
}

func (r runReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.run) }

func (r runReport) TableHeaders() []string {
	return []string{"FIELD", "TOTAL", "MATCH RATE"}
}

func (r runReport) TableRows() [][]string {
	fields := make([]string, 0, len(r.run.Summary.Fields))
	for field := range r.run.Summary.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		rep := r.run.Summary.Fields[field]
		rows = append(rows, []string{field, strconv.Itoa(rep.Total), fmt.Sprintf("%.1f%%", rep.MatchRate*100)})
	}
	return rows
}

func (r runReport) String() string {
	return fmt.Sprintf("run %s: %d entities, started %s, finished %s",
		r.run.RunID, r.run.Entities,
		r.run.StartedAt.Format("2006-01-02 15:04:05"),
		r.run.FinishedAt.Format("2006-01-02 15:04:05"))
}

type unknownsReport struct {
	resp *ontology.UnknownTermsResponse
}

func (r unknownsReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.resp) }

func (r unknownsReport) TableHeaders() []string {
	return []string{"TERM", "COUNT"}
}

func (r unknownsReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.resp.Terms))
	for _, term := range r.resp.Terms {
		rows = append(rows, []string{term.Term, strconv.Itoa(term.Count)})
	}
	return rows
}

func (r unknownsReport) String() string {
	if len(r.resp.Terms) == 0 {
		return fmt.Sprintf("no unknown %s terms", r.resp.Field)
	}
	out := fmt.Sprintf("unknown %s terms:", r.resp.Field)
	for _, term := range r.resp.Terms {
		out += fmt.Sprintf("\n  %s (%d)", term.Term, term.Count)
	}
	return out
}

type statusReport struct {
	status *ontology.StatusResponse
}

func (r statusReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.status) }

func (r statusReport) TableHeaders() []string {
	return []string{"FIELD", "ENTITIES", "STATUS"}
}

func (r statusReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.status.Dictionaries))
	for _, d := range r.status.Dictionaries {
		status := "ok"
		if d.Failed {
			status = "failed: " + d.Error
		}
		rows = append(rows, []string{string(d.Field), strconv.Itoa(d.Entities), status})
	}
	return rows
}

func (r statusReport) String() string {
	if !r.status.Ready {
		return "not ready: dictionaries not built"
	}
	return fmt.Sprintf("ready: %d dictionaries built at %s",
		len(r.status.Dictionaries), r.status.BuiltAt.Format("2006-01-02 15:04:05"))
}

//Personal.AI order the ending
