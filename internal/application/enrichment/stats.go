package enrichment

import (
	"sort"
	"sync"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

// RunStats accumulates per-field match statistics and the unknown-term
// tallies for one enrichment run.  It is safe for concurrent writers during
// the run; read it only after Run returns.
type RunStats struct {
	mu sync.Mutex

	entities     int
	statusCounts map[ontology.FieldType]map[ontology.MatchStatus]int
	unknownTerms map[ontology.FieldType]map[string]int
}

func newRunStats() *RunStats {
	return &RunStats{
		statusCounts: make(map[ontology.FieldType]map[ontology.MatchStatus]int),
		unknownTerms: make(map[ontology.FieldType]map[string]int),
	}
}

func (s *RunStats) record(field ontology.FieldType, status ontology.MatchStatus, normalizedTerm string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusCounts[field] == nil {
		s.statusCounts[field] = make(map[ontology.MatchStatus]int)
	}
	s.statusCounts[field][status]++
	if status == ontology.StatusUnknown && normalizedTerm != "" {
		if s.unknownTerms[field] == nil {
			s.unknownTerms[field] = make(map[string]int)
		}
		s.unknownTerms[field][normalizedTerm]++
	}
}

func (s *RunStats) recordEntity() {
	s.mu.Lock()
	s.entities++
	s.mu.Unlock()
}

// Entities returns the number of entities processed.
func (s *RunStats) Entities() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities
}

// StatusCount returns the number of resolutions for a field with a status.
func (s *RunStats) StatusCount(field ontology.FieldType, status ontology.MatchStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCounts[field][status]
}

// MatchRate returns matched/total for a field, or 0 when the field saw no
// resolutions.
func (s *RunStats) MatchRate(field ontology.FieldType) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	matched := 0
	for status, n := range s.statusCounts[field] {
		total += n
		if status.IsMatched() {
			matched += n
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// UnknownTerm is one unresolved term with its occurrence count, exported for
// curation.
type UnknownTerm struct {
	FieldType ontology.FieldType `json:"field_type"`
	Term      string             `json:"term"`
	Count     int                `json:"count"`
}

// UnknownTerms returns every unresolved term per field, most frequent first
// and then lexicographic for determinism.
func (s *RunStats) UnknownTerms() []UnknownTerm {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []UnknownTerm
	for field, terms := range s.unknownTerms {
		for term, n := range terms {
			out = append(out, UnknownTerm{FieldType: field, Term: term, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].FieldType != out[j].FieldType {
			return out[i].FieldType < out[j].FieldType
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// Summary is the serializable per-field report emitted at run end.
type Summary struct {
	Entities int                    `json:"entities"`
	Fields   map[string]FieldReport `json:"fields"`
}

// FieldReport carries per-field status counts and the match rate.
type FieldReport struct {
	Total     int                          `json:"total"`
	MatchRate float64                      `json:"match_rate"`
	ByStatus  map[ontology.MatchStatus]int `json:"by_status"`
}

// Summarize renders the run statistics as a serializable summary.
func (s *RunStats) Summarize() Summary {
	s.mu.Lock()
	fieldsSnapshot := make(map[ontology.FieldType]map[ontology.MatchStatus]int, len(s.statusCounts))
	for f, m := range s.statusCounts {
		cp := make(map[ontology.MatchStatus]int, len(m))
		for st, n := range m {
			cp[st] = n
		}
		fieldsSnapshot[f] = cp
	}
	entities := s.entities
	s.mu.Unlock()

	sum := Summary{Entities: entities, Fields: make(map[string]FieldReport, len(fieldsSnapshot))}
	for field, byStatus := range fieldsSnapshot {
		total := 0
		matched := 0
		for status, n := range byStatus {
			total += n
			if status.IsMatched() {
				matched += n
			}
		}
		rate := 0.0
		if total > 0 {
			rate = float64(matched) / float64(total)
		}
		sum.Fields[string(field)] = FieldReport{Total: total, MatchRate: rate, ByStatus: byStatus}
	}
	return sum
}

//Personal.AI order the ending
