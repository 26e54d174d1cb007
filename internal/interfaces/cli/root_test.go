package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/pkg/types/ontology"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "oncoterm", cmd.Use)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "enrich")
	assert.Contains(t, names, "report")

	for _, flag := range []string{"config", "log-level", "output", "verbose", "timeout", "server"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestGetCLIContextUninitialized(t *testing.T) {
	cmd := &cobra.Command{Use: "orphan"}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(
		[]string{"FIELD", "ENTITIES"},
		[][]string{
			{"drug", "2"},
			{"antigen", "410"},
		},
	)

	assert.Equal(t,
		"FIELD    ENTITIES\n"+
			"-------  --------\n"+
			"drug     2       \n"+
			"antigen  410     \n",
		out)
}

func TestFormatTableEmptyHeaders(t *testing.T) {
	assert.Empty(t, FormatTable(nil, [][]string{{"x"}}))
}

// TestReportStatusEndToEnd drives the report subcommand against a stub API
// server through the real client and root-command initialization.
func TestReportStatusEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ontology.StatusResponse{
			Ready: true,
			Dictionaries: []ontology.DictionaryStatus{
				{Field: ontology.FieldDrug, Entities: 128},
			},
		})
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"report", "status", "--server", srv.URL, "-o", "json"})

	require.NoError(t, cmd.Execute())

	var status ontology.StatusResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &status))
	assert.True(t, status.Ready)
	require.Len(t, status.Dictionaries, 1)
	assert.Equal(t, 128, status.Dictionaries[0].Entities)
}

func TestReportUnknownsTableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/unknowns", r.URL.Path)
		require.Equal(t, "antigen", r.URL.Query().Get("field"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ontology.UnknownTermsResponse{
			Field: ontology.FieldAntigen,
			Terms: []ontology.UnknownTerm{
				{FieldType: ontology.FieldAntigen, Term: "novel antigen X", Count: 3},
			},
		})
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"report", "unknowns", "--field", "antigen", "--server", srv.URL, "-o", "table"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "novel antigen X")
	assert.Contains(t, out.String(), "COUNT")
}

//Personal.AI order the ending
