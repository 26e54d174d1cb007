// Package taca carries the curated tumor-associated antigen list used as the
// fallback dictionary for the antigen field type.  Glycan and other
// non-HGNC-encoded antigens never hit the gene ontology; this list gives them
// a stable canonical identity.
package taca

import (
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources"
)

// SourceName identifies the curated list in extract provenance.
const SourceName = "taca"

// AttrClass marks the antigen class on curated records.
const AttrClass = "antigen_class"

// curated is the reviewed tumor-associated antigen list.  IDs are stable
// within this list; labels follow the prevailing literature form.
var curated = []ontology.SourceRecord{
	{ID: "TACA:GD2", Label: "GD2", Aliases: []string{"disialoganglioside GD2", "ganglioside GD2"},
		Attributes: map[string]string{AttrClass: "ganglioside"}},
	{ID: "TACA:GD3", Label: "GD3", Aliases: []string{"disialoganglioside GD3", "ganglioside GD3"},
		Attributes: map[string]string{AttrClass: "ganglioside"}},
	{ID: "TACA:GM2", Label: "GM2", Aliases: []string{"ganglioside GM2"},
		Attributes: map[string]string{AttrClass: "ganglioside"}},
	{ID: "TACA:FUC-GM1", Label: "Fucosyl-GM1", Aliases: []string{"fucosyl GM1", "FucGM1"},
		Attributes: map[string]string{AttrClass: "ganglioside"}},
	{ID: "TACA:GLOBO-H", Label: "Globo H", Aliases: []string{"globohexaosylceramide", "GloboH"},
		Attributes: map[string]string{AttrClass: "globo-series glycolipid"}},
	{ID: "TACA:SSEA-4", Label: "SSEA-4", Aliases: []string{"stage-specific embryonic antigen 4"},
		Attributes: map[string]string{AttrClass: "globo-series glycolipid"}},
	{ID: "TACA:TN", Label: "Tn antigen", Aliases: []string{"Tn", "CD175"},
		Attributes: map[string]string{AttrClass: "mucin-type O-glycan"}},
	{ID: "TACA:STN", Label: "Sialyl-Tn", Aliases: []string{"sTn", "STn antigen", "CD175s"},
		Attributes: map[string]string{AttrClass: "mucin-type O-glycan"}},
	{ID: "TACA:TF", Label: "Thomsen-Friedenreich antigen", Aliases: []string{"TF antigen", "CD176"},
		Attributes: map[string]string{AttrClass: "mucin-type O-glycan"}},
	{ID: "TACA:LEY", Label: "Lewis Y", Aliases: []string{"LeY", "Lewis-Y", "CD174"},
		Attributes: map[string]string{AttrClass: "Lewis antigen"}},
	{ID: "TACA:SLEA", Label: "Sialyl-Lewis A", Aliases: []string{"sLea", "CA 19-9 antigen"},
		Attributes: map[string]string{AttrClass: "Lewis antigen"}},
	{ID: "TACA:SLEX", Label: "Sialyl-Lewis X", Aliases: []string{"sLex", "CD15s"},
		Attributes: map[string]string{AttrClass: "Lewis antigen"}},
	{ID: "TACA:PSA", Label: "Polysialic acid", Aliases: []string{"polySia", "PSA-NCAM"},
		Attributes: map[string]string{AttrClass: "polysialic acid"}},
	// Surface antigens targeted by clinical ADCs that the gene set misses
	// under their trade symbols.
	{ID: "TACA:TROP2", Label: "TROP2", Aliases: []string{"trophoblast antigen 2", "EGP-1"},
		Attributes: map[string]string{AttrClass: "surface glycoprotein"}},
	{ID: "TACA:CA125", Label: "CA125", Aliases: []string{"cancer antigen 125"},
		Attributes: map[string]string{AttrClass: "surface glycoprotein"}},
	{ID: "TACA:MESO", Label: "Mesothelin", Aliases: []string{"MSLN antigen"},
		Attributes: map[string]string{AttrClass: "surface glycoprotein"}},
}

// NewSource returns the curated list as a fallback dictionary source.
func NewSource() *sources.StaticSource {
	records := make([]ontology.SourceRecord, len(curated))
	copy(records, curated)
	return sources.NewStaticSource(SourceName, ontology.FieldAntigen, records)
}

// Records returns a copy of the curated list.
func Records() []ontology.SourceRecord {
	out := make([]ontology.SourceRecord, len(curated))
	copy(out, curated)
	return out
}

//Personal.AI order the ending
