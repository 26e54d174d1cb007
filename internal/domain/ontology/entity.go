// Package ontology holds the core domain model for biomedical term resolution:
// canonical entities drawn from reference ontologies (ChEMBL, HGNC, DOID/NCIT,
// the curated tumor-antigen list), the dictionaries built from them, and the
// matching cascade that resolves noisy free-text terms against those
// dictionaries.  The package is pure — no I/O, no remote calls — so every
// operation here is deterministic given its inputs.
package ontology

import (
	"fmt"
	"sort"

	"github.com/turtacn/OncoTerm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// FieldType — the five resolvable fields of an extracted drug mention
// ─────────────────────────────────────────────────────────────────────────────

// FieldType identifies which extracted field a term belongs to; each field
// type resolves against its own dictionary.
type FieldType string

const (
	FieldDrug    FieldType = "drug"
	FieldAntigen FieldType = "antigen"
	FieldDisease FieldType = "disease"
	FieldPayload FieldType = "payload"
	FieldLinker  FieldType = "linker"
)

// AllFieldTypes lists every resolvable field type in canonical order.
func AllFieldTypes() []FieldType {
	return []FieldType{FieldDrug, FieldAntigen, FieldDisease, FieldPayload, FieldLinker}
}

// IsValid checks if the field type is one of the five resolvable fields.
func (f FieldType) IsValid() bool {
	switch f {
	case FieldDrug, FieldAntigen, FieldDisease, FieldPayload, FieldLinker:
		return true
	default:
		return false
	}
}

// String returns the string representation of the field type.
func (f FieldType) String() string {
	return string(f)
}

// ParseFieldType parses a string into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	f := FieldType(s)
	if f.IsValid() {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeFieldTypeInvalid, "unsupported field type: "+s)
}

// ─────────────────────────────────────────────────────────────────────────────
// MatchStatus — quality tag describing how a resolution was obtained
// ─────────────────────────────────────────────────────────────────────────────

// MatchStatus tags the step of the cascade that produced a resolution.
type MatchStatus string

const (
	StatusExactMatch    MatchStatus = "exact_match"
	StatusAliasMatch    MatchStatus = "alias_match"
	StatusFuzzyMatch    MatchStatus = "fuzzy_match"
	StatusFallbackMatch MatchStatus = "fallback_match"
	StatusUnknown       MatchStatus = "unknown"
)

// IsValid checks if the match status is a known value.
func (s MatchStatus) IsValid() bool {
	switch s {
	case StatusExactMatch, StatusAliasMatch, StatusFuzzyMatch, StatusFallbackMatch, StatusUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the match status.
func (s MatchStatus) String() string {
	return string(s)
}

// IsMatched reports whether the status represents a successful resolution.
// An unknown term is a normal outcome, never an error.
func (s MatchStatus) IsMatched() bool {
	return s != StatusUnknown && s != ""
}

// ─────────────────────────────────────────────────────────────────────────────
// CanonicalEntity — one reference-ontology record
// ─────────────────────────────────────────────────────────────────────────────

// CanonicalEntity is the authoritative reference record for a term in some
// ontology.  PrimaryID is unique within a field type; aliases may overlap
// across entities (the dictionary keeps an ordered list per alias string).
type CanonicalEntity struct {
	FieldType      FieldType         `json:"field_type"`
	PrimaryID      string            `json:"primary_id"`
	PreferredLabel string            `json:"preferred_label"`
	Aliases        []string          `json:"aliases,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// Validate checks the structural invariants of a canonical entity.
func (e *CanonicalEntity) Validate() error {
	if e == nil {
		return errors.New(errors.ErrCodeEntityMalformed, "canonical entity is nil")
	}
	if !e.FieldType.IsValid() {
		return errors.New(errors.ErrCodeFieldTypeInvalid, "canonical entity has invalid field type: "+string(e.FieldType))
	}
	if e.PrimaryID == "" {
		return errors.New(errors.ErrCodeEntityMalformed, "canonical entity has empty primary id")
	}
	if e.PreferredLabel == "" {
		return errors.New(errors.ErrCodeEntityMalformed, "canonical entity has empty preferred label")
	}
	return nil
}

// Attr returns the named attribute or "" when absent.
func (e *CanonicalEntity) Attr(key string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}

func (e *CanonicalEntity) String() string {
	return fmt.Sprintf("CanonicalEntity{%s %s %q}", e.FieldType, e.PrimaryID, e.PreferredLabel)
}

// ─────────────────────────────────────────────────────────────────────────────
// ResolutionResult — outcome of resolving one raw term
// ─────────────────────────────────────────────────────────────────────────────

// Confidence values attached by the cascade.  Exact and alias hits are
// certain; fuzzy confidence is the similarity score; fallback hits carry the
// confidence of whichever cascade step matched inside the fallback dictionary.
const (
	ConfidenceExact   = 1.0
	ConfidenceAlias   = 1.0
	ConfidenceUnknown = 0.0
)

// ResolutionResult is the outcome of resolving one raw term against one field
// type's dictionary.  MatchedEntity is nil for unknown terms.
type ResolutionResult struct {
	InputTerm      string           `json:"input_term"`
	NormalizedTerm string           `json:"normalized_term"`
	MatchedEntity  *CanonicalEntity `json:"matched_entity,omitempty"`
	MatchStatus    MatchStatus      `json:"match_status"`
	Confidence     float64          `json:"confidence"`
}

// IsMatched reports whether the result carries a matched entity.
func (r *ResolutionResult) IsMatched() bool {
	return r != nil && r.MatchedEntity != nil && r.MatchStatus.IsMatched()
}

// Unresolved constructs the canonical unknown result for a term.
func Unresolved(inputTerm, normalized string) *ResolutionResult {
	return &ResolutionResult{
		InputTerm:      inputTerm,
		NormalizedTerm: normalized,
		MatchStatus:    StatusUnknown,
		Confidence:     ConfidenceUnknown,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// EnrichedEntity — a source record plus its ontology sub-records
// ─────────────────────────────────────────────────────────────────────────────

// FieldSummary is the per-field sub-record attached under ontology.<field>.
// It carries the canonical identity plus the attributes relevant to the field
// type (mechanism of action for drugs, hierarchy path for diseases, ...).
type FieldSummary struct {
	PrimaryID      string            `json:"primary_id,omitempty"`
	PreferredLabel string            `json:"preferred_label,omitempty"`
	MatchStatus    MatchStatus       `json:"match_status"`
	Confidence     float64           `json:"confidence"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	HierarchyPath  []string          `json:"hierarchy_path,omitempty"`
}

// EnrichedEntity is a source record augmented with one FieldSummary per field
// type present in the source.  Original source fields are copied verbatim and
// never mutated; absence of a field in the source means absence from Ontology
// (absence is not a failed match).
type EnrichedEntity struct {
	// Source holds the original record fields, untouched.
	Source map[string]interface{} `json:"source"`

	// Ontology maps field type to its resolution summary.
	Ontology map[FieldType]*FieldSummary `json:"ontology"`

	// ProcessingNotes records per-entity containment events (malformed field
	// values, resolver failures) without failing the batch.
	ProcessingNotes []string `json:"processing_notes,omitempty"`
}

// FieldTypes returns the field types present in the ontology block, sorted
// for deterministic serialization.
func (e *EnrichedEntity) FieldTypes() []FieldType {
	out := make([]FieldType, 0, len(e.Ontology))
	for ft := range e.Ontology {
		out = append(out, ft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

//Personal.AI order the ending
