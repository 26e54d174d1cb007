// Package ontology holds the wire types of the OncoTerm HTTP API: field
// types, match statuses, and the request/response shapes shared by the server
// handlers and the Go client.
package ontology

import (
	"fmt"
	"time"
)

// FieldType names a resolvable field of a drug mention.
type FieldType string

const (
	FieldDrug    FieldType = "drug"
	FieldAntigen FieldType = "antigen"
	FieldDisease FieldType = "disease"
	FieldPayload FieldType = "payload"
	FieldLinker  FieldType = "linker"
)

// AllFieldTypes lists every resolvable field type.
func AllFieldTypes() []FieldType {
	return []FieldType{FieldDrug, FieldAntigen, FieldDisease, FieldPayload, FieldLinker}
}

// IsValid checks the field type against the known set.
func (f FieldType) IsValid() bool {
	switch f {
	case FieldDrug, FieldAntigen, FieldDisease, FieldPayload, FieldLinker:
		return true
	}
	return false
}

// MatchStatus tags how a term resolution was obtained.
type MatchStatus string

const (
	StatusExactMatch    MatchStatus = "exact_match"
	StatusAliasMatch    MatchStatus = "alias_match"
	StatusFuzzyMatch    MatchStatus = "fuzzy_match"
	StatusFallbackMatch MatchStatus = "fallback_match"
	StatusUnknown       MatchStatus = "unknown"
)

// IsMatched reports whether the status carries a canonical identity.
func (s MatchStatus) IsMatched() bool {
	return s == StatusExactMatch || s == StatusAliasMatch ||
		s == StatusFuzzyMatch || s == StatusFallbackMatch
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolution shapes
// ─────────────────────────────────────────────────────────────────────────────

// CanonicalEntity is one dictionary entry on the wire.
type CanonicalEntity struct {
	PrimaryID      string            `json:"primary_id"`
	PreferredLabel string            `json:"preferred_label"`
	Aliases        []string          `json:"aliases,omitempty"`
	FieldType      FieldType         `json:"field_type"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// Resolution is the outcome of resolving one term.
type Resolution struct {
	InputTerm      string           `json:"input_term"`
	NormalizedTerm string           `json:"normalized_term"`
	MatchedEntity  *CanonicalEntity `json:"matched_entity,omitempty"`
	MatchStatus    MatchStatus      `json:"match_status"`
	Confidence     float64          `json:"confidence"`
}

// FieldSummary is the per-field ontology block attached to an enriched
// entity.
type FieldSummary struct {
	PrimaryID      string            `json:"primary_id,omitempty"`
	PreferredLabel string            `json:"preferred_label,omitempty"`
	MatchStatus    MatchStatus       `json:"match_status"`
	Confidence     float64           `json:"confidence"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	HierarchyPath  []string          `json:"hierarchy_path,omitempty"`
}

// EnrichedEntity is a source record plus its resolved ontology block.
type EnrichedEntity struct {
	Source          map[string]interface{}      `json:"source"`
	Ontology        map[FieldType]*FieldSummary `json:"ontology"`
	ProcessingNotes []string                    `json:"processing_notes,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Intake shapes
// ─────────────────────────────────────────────────────────────────────────────

// DrugMention is one extracted ADC mention inside a literature entry.
type DrugMention struct {
	DrugName         string   `json:"drugName"`
	TargetAntigen    string   `json:"targetAntigen,omitempty"`
	CancerIndication []string `json:"cancerIndication,omitempty"`
	Payload          string   `json:"payload,omitempty"`
	Linker           string   `json:"linker,omitempty"`
	Phase            string   `json:"phase,omitempty"`
	Company          string   `json:"company,omitempty"`
}

// Entry is one literature entry submitted for enrichment.
type Entry struct {
	ID             string        `json:"id"`
	Title          string        `json:"title,omitempty"`
	ExtractedDrugs []DrugMention `json:"extractedDrugs"`
}

// ─────────────────────────────────────────────────────────────────────────────
// API request/response shapes
// ─────────────────────────────────────────────────────────────────────────────

// ResolveRequest asks for one ad-hoc term resolution.
type ResolveRequest struct {
	Field FieldType `json:"field"`
	Term  string    `json:"term"`
}

// Validate checks the request shape before it reaches the resolver.
func (r *ResolveRequest) Validate() error {
	if !r.Field.IsValid() {
		return fmt.Errorf("unknown field type %q", r.Field)
	}
	if r.Term == "" {
		return fmt.Errorf("term is required")
	}
	return nil
}

// ResolveResponse carries one resolution.
type ResolveResponse struct {
	Field      FieldType   `json:"field"`
	Resolution *Resolution `json:"resolution"`
}

// EnrichRequest submits literature entries for a synchronous enrichment run.
type EnrichRequest struct {
	Entries []Entry `json:"entries"`
}

// FieldReport carries per-field status counts and the match rate.
type FieldReport struct {
	Total     int                 `json:"total"`
	MatchRate float64             `json:"match_rate"`
	ByStatus  map[MatchStatus]int `json:"by_status"`
}

// Summary is the per-run statistics block.
type Summary struct {
	Entities int                    `json:"entities"`
	Fields   map[string]FieldReport `json:"fields"`
}

// UnknownTerm is one unresolved term with its occurrence count, the unit of
// the curation report.
type UnknownTerm struct {
	FieldType FieldType `json:"field_type"`
	Term      string    `json:"term"`
	Count     int       `json:"count"`
}

// EnrichResponse is the output of one enrichment run.
type EnrichResponse struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Entities   []*EnrichedEntity `json:"entities"`
	Summary    Summary           `json:"summary"`
	Unknowns   []UnknownTerm     `json:"unknowns,omitempty"`
}

// RunResponse is the persisted header of a past run.
type RunResponse struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Entities   int       `json:"entities"`
	Summary    Summary   `json:"summary"`
}

// UnknownTermsResponse is the curation report for one field type.
type UnknownTermsResponse struct {
	Field FieldType     `json:"field"`
	Terms []UnknownTerm `json:"terms"`
}

// DictionaryStatus reports one field type's dictionary state.
type DictionaryStatus struct {
	Field    FieldType `json:"field"`
	Entities int       `json:"entities"`
	Failed   bool      `json:"failed"`
	Error    string    `json:"error,omitempty"`
}

// StatusResponse reports service readiness and dictionary state.
type StatusResponse struct {
	Ready        bool               `json:"ready"`
	BuiltAt      time.Time          `json:"built_at,omitempty"`
	Dictionaries []DictionaryStatus `json:"dictionaries,omitempty"`
}

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Personal.AI order the ending
