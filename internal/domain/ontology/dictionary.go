package ontology

import (
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Source extracts
// ─────────────────────────────────────────────────────────────────────────────

// SourceRecord is one raw record from a lookup source extract.  ID and Label
// are required for the record to be usable; Aliases and Attributes are
// optional.
type SourceRecord struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Aliases    []string          `json:"aliases,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SourceExtract is the in-memory batch output of one lookup source.  Source
// order matters: when two sources define the same alias, the source listed
// first has resolution priority.
type SourceExtract struct {
	Name    string         `json:"name"`
	Records []SourceRecord `json:"records"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Dictionary — per-field-type canonical lookup table
// ─────────────────────────────────────────────────────────────────────────────

// Dictionary is the immutable lookup structure for one field type, built once
// per pipeline run.  It is safe for concurrent readers without locking; no
// mutation happens after BuildDictionary returns.
type Dictionary struct {
	fieldType FieldType
	exact     map[string]*CanonicalEntity
	alias     map[string][]*CanonicalEntity
	byID      map[string]*CanonicalEntity
	entities  []*CanonicalEntity
}

// FieldType returns the field type this dictionary resolves.
func (d *Dictionary) FieldType() FieldType { return d.fieldType }

// Size returns the number of canonical entities.
func (d *Dictionary) Size() int {
	if d == nil {
		return 0
	}
	return len(d.entities)
}

// LookupExact returns the entity whose normalized preferred label equals the
// normalized term.
func (d *Dictionary) LookupExact(normalized string) (*CanonicalEntity, bool) {
	if d == nil {
		return nil, false
	}
	e, ok := d.exact[normalized]
	return e, ok
}

// LookupAlias returns the entities registered for a normalized alias, in
// priority order (first source listed wins, then build order).
func (d *Dictionary) LookupAlias(normalized string) ([]*CanonicalEntity, bool) {
	if d == nil {
		return nil, false
	}
	es, ok := d.alias[normalized]
	return es, ok
}

// EntityByID returns the entity with the given primary ID.
func (d *Dictionary) EntityByID(id string) (*CanonicalEntity, bool) {
	if d == nil {
		return nil, false
	}
	e, ok := d.byID[id]
	return e, ok
}

// Entities returns the canonical entities in build order.  The returned slice
// must be treated as read-only.
func (d *Dictionary) Entities() []*CanonicalEntity {
	if d == nil {
		return nil
	}
	return d.entities
}

// ─────────────────────────────────────────────────────────────────────────────
// BuildDictionary
// ─────────────────────────────────────────────────────────────────────────────

// BuildDictionary builds the lookup table for one field type from one or more
// source extracts.  Building is idempotent and order-sensitive only for alias
// tie-break: the first source listed has priority for duplicate aliases, and
// within a source build order decides.
//
// A source whose records all lack the required id or label fields makes the
// whole field type unresolvable and produces an ErrCodeSourceFormat error;
// the caller contains this at field-type granularity.  Individual records
// missing required fields are skipped.
func BuildDictionary(field FieldType, sources ...SourceExtract) (*Dictionary, error) {
	if !field.IsValid() {
		return nil, errors.New(errors.ErrCodeFieldTypeInvalid, "cannot build dictionary for field type: "+string(field))
	}
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeDictionaryEmpty, "no sources supplied for field type "+string(field))
	}

	d := &Dictionary{
		fieldType: field,
		exact:     make(map[string]*CanonicalEntity),
		alias:     make(map[string][]*CanonicalEntity),
		byID:      make(map[string]*CanonicalEntity),
	}

	for _, src := range sources {
		usable := 0
		for _, rec := range src.Records {
			if rec.ID == "" || rec.Label == "" {
				continue
			}
			usable++
			d.add(field, rec)
		}
		if len(src.Records) > 0 && usable == 0 {
			return nil, errors.SourceFormat("required id/label fields absent from every record").
				WithDetail("source=" + src.Name + " field=" + string(field))
		}
	}

	if len(d.entities) == 0 {
		return nil, errors.New(errors.ErrCodeDictionaryEmpty, "sources produced no usable entities").
			WithDetail("field=" + string(field))
	}
	return d, nil
}

// add merges one usable record into the dictionary.  The first occurrence of
// a primary ID wins; later records with the same ID only contribute aliases.
func (d *Dictionary) add(field FieldType, rec SourceRecord) {
	entity, exists := d.byID[rec.ID]
	if !exists {
		entity = &CanonicalEntity{
			FieldType:      field,
			PrimaryID:      rec.ID,
			PreferredLabel: rec.Label,
			Attributes:     rec.Attributes,
		}
		d.byID[rec.ID] = entity
		d.entities = append(d.entities, entity)

		labelKey := Normalize(field, rec.Label)
		if labelKey != "" {
			if _, taken := d.exact[labelKey]; !taken {
				d.exact[labelKey] = entity
			}
		}
	}

	for _, a := range rec.Aliases {
		key := Normalize(field, a)
		if key == "" {
			continue
		}
		entity.Aliases = appendUnique(entity.Aliases, key)
		if containsEntity(d.alias[key], entity.PrimaryID) {
			continue
		}
		d.alias[key] = append(d.alias[key], entity)
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func containsEntity(list []*CanonicalEntity, id string) bool {
	for _, e := range list {
		if e.PrimaryID == id {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
