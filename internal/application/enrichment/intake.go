package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Literature entry intake
// ─────────────────────────────────────────────────────────────────────────────

// DrugMention is one extracted ADC mention inside a literature entry, in the
// shape the extraction step emits.
type DrugMention struct {
	DrugName         string   `json:"drugName"`
	TargetAntigen    string   `json:"targetAntigen,omitempty"`
	CancerIndication []string `json:"cancerIndication,omitempty"`
	Payload          string   `json:"payload,omitempty"`
	Linker           string   `json:"linker,omitempty"`
	Phase            string   `json:"phase,omitempty"`
	Company          string   `json:"company,omitempty"`
}

// Entry is one literature entry carrying zero or more drug mentions.
type Entry struct {
	ID             string        `json:"id"`
	Title          string        `json:"title,omitempty"`
	ExtractedDrugs []DrugMention `json:"extractedDrugs"`
}

// ParseEntries decodes a JSON array of literature entries.  A top-level
// object with an "entries" key is accepted as well, matching both export
// shapes the extraction step produces.
func ParseEntries(data []byte) ([]Entry, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeIntakeMalformed, "empty entry document")
	}

	if strings.HasPrefix(trimmed, "{") {
		var doc struct {
			Entries []Entry `json:"entries"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIntakeMalformed, "malformed entry document")
		}
		return doc.Entries, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIntakeMalformed, "malformed entry document")
	}
	return entries, nil
}

// ParseHierarchy decodes a disease-hierarchy document: a JSON object mapping
// disease IDs to their root-first ancestor label paths, as exported from the
// DOID graph.
func ParseHierarchy(data []byte) (*ontology.DiseaseHierarchy, error) {
	var paths map[string][][]string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIntakeMalformed, "malformed hierarchy document")
	}
	return ontology.NewDiseaseHierarchy(paths), nil
}

// Mentions flattens literature entries into pipeline mentions.  Each drug
// mention becomes one RawMention whose entry ID is "<entryID>/<index>" so
// multi-drug entries stay traceable.  Blank terms are omitted so the merge
// step drops the field rather than resolving an empty string.
func Mentions(entries []Entry) []RawMention {
	var out []RawMention
	for _, entry := range entries {
		for i, d := range entry.ExtractedDrugs {
			out = append(out, newMention(entry, i, d))
		}
	}
	return out
}

func newMention(entry Entry, index int, d DrugMention) RawMention {
	entryID := fmt.Sprintf("%s/%d", entry.ID, index)
	source := map[string]interface{}{
		"entryId":  entryID,
		"drugName": d.DrugName,
	}
	if entry.Title != "" {
		source["entryTitle"] = entry.Title
	}
	if d.TargetAntigen != "" {
		source["targetAntigen"] = d.TargetAntigen
	}
	if len(d.CancerIndication) > 0 {
		indications := make([]interface{}, len(d.CancerIndication))
		for i, ind := range d.CancerIndication {
			indications[i] = ind
		}
		source["cancerIndication"] = indications
	}
	if d.Payload != "" {
		source["payload"] = d.Payload
	}
	if d.Linker != "" {
		source["linker"] = d.Linker
	}
	if d.Phase != "" {
		source["phase"] = d.Phase
	}
	if d.Company != "" {
		source["company"] = d.Company
	}

	terms := make(map[ontology.FieldType][]string)
	if strings.TrimSpace(d.DrugName) != "" {
		terms[ontology.FieldDrug] = []string{d.DrugName}
	}
	if strings.TrimSpace(d.TargetAntigen) != "" {
		terms[ontology.FieldAntigen] = []string{d.TargetAntigen}
	}
	for _, ind := range d.CancerIndication {
		if strings.TrimSpace(ind) != "" {
			terms[ontology.FieldDisease] = append(terms[ontology.FieldDisease], ind)
		}
	}
	if strings.TrimSpace(d.Payload) != "" {
		terms[ontology.FieldPayload] = []string{d.Payload}
	}
	if strings.TrimSpace(d.Linker) != "" {
		terms[ontology.FieldLinker] = []string{d.Linker}
	}

	return RawMention{
		EntryID: entryID,
		Source:  source,
		Terms:   terms,
	}
}

// EntityEntryID recovers the entry ID a merged entity originated from.
func EntityEntryID(entity *ontology.EnrichedEntity) string {
	if entity == nil {
		return ""
	}
	if id, ok := entity.Source["entryId"].(string); ok {
		return id
	}
	return ""
}

// TermSet is the deduplicated per-field set of terms appearing in a corpus,
// used to seed the term-driven dictionary sources.
type TermSet map[ontology.FieldType][]string

// SeedTerms collects every distinct term mentioned in the entries, per field,
// preserving first-seen order.
func SeedTerms(entries []Entry) TermSet {
	set := make(TermSet)
	seen := make(map[ontology.FieldType]map[string]struct{})

	add := func(field ontology.FieldType, raw string) {
		term := strings.TrimSpace(raw)
		if term == "" {
			return
		}
		key := ontology.Normalize(field, term)
		if seen[field] == nil {
			seen[field] = make(map[string]struct{})
		}
		if _, dup := seen[field][key]; dup {
			return
		}
		seen[field][key] = struct{}{}
		set[field] = append(set[field], term)
	}

	for _, entry := range entries {
		for _, d := range entry.ExtractedDrugs {
			add(ontology.FieldDrug, d.DrugName)
			add(ontology.FieldAntigen, d.TargetAntigen)
			for _, ind := range d.CancerIndication {
				add(ontology.FieldDisease, ind)
			}
			add(ontology.FieldPayload, d.Payload)
			add(ontology.FieldLinker, d.Linker)
		}
	}
	return set
}

//Personal.AI order the ending
