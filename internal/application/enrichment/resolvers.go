package enrichment

import (
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// FieldResolver wraps the cascade and cache with field-specific pre- and
// post-processing.  Resolvers are stateless beyond their dictionary and cache
// references and are safe for concurrent use.
type FieldResolver interface {
	FieldType() ontology.FieldType
	ResolveField(term string) *ontology.ResolutionResult
}

// moleculeTypeAttr is the ChEMBL attribute carrying the molecule class.
const moleculeTypeAttr = "molecule_type"

// moleculeTypeADC is the ChEMBL molecule type accepted by the drug resolver.
const moleculeTypeADC = "Antibody drug conjugate"

// ─────────────────────────────────────────────────────────────────────────────
// Drug resolver — ChEMBL, antibody-drug-conjugate entities only
// ─────────────────────────────────────────────────────────────────────────────

type drugResolver struct {
	cascade *ontology.Cascade
	dict    *ontology.Dictionary
	cache   ResolutionCache
}

// NewDrugResolver builds the drug field resolver over a ChEMBL-derived
// dictionary.  The dictionary is restricted at build time to ADC molecules;
// the resolver re-checks the molecule type so a mixed snapshot cannot leak a
// non-ADC match.
func NewDrugResolver(cascade *ontology.Cascade, dict *ontology.Dictionary, cache ResolutionCache) (FieldResolver, error) {
	if cascade == nil || cache == nil {
		return nil, errors.InvalidParam("drug resolver requires cascade and cache")
	}
	return &drugResolver{cascade: cascade, dict: dict, cache: cache}, nil
}

func (r *drugResolver) FieldType() ontology.FieldType { return ontology.FieldDrug }

func (r *drugResolver) ResolveField(term string) *ontology.ResolutionResult {
	normalized := ontology.Normalize(ontology.FieldDrug, term)
	return r.cache.GetOrResolve(ontology.FieldDrug, normalized, func() *ontology.ResolutionResult {
		res := r.cascade.Resolve(term, []string{normalized}, r.dict, nil)
		if res.IsMatched() {
			if mt := res.MatchedEntity.Attr(moleculeTypeAttr); mt != "" && mt != moleculeTypeADC {
				return ontology.Unresolved(term, normalized)
			}
		}
		return res
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Antigen resolver — HGNC primary, curated tumor-antigen fallback
// ─────────────────────────────────────────────────────────────────────────────

type antigenResolver struct {
	cascade  *ontology.Cascade
	dict     *ontology.Dictionary
	fallback *ontology.Dictionary
	cache    ResolutionCache
}

// NewAntigenResolver builds the antigen field resolver.  fallback is the
// curated tumor-associated-antigen dictionary consulted when HGNC yields no
// hit; it may be nil when the curated list is unavailable.
func NewAntigenResolver(cascade *ontology.Cascade, dict, fallback *ontology.Dictionary, cache ResolutionCache) (FieldResolver, error) {
	if cascade == nil || cache == nil {
		return nil, errors.InvalidParam("antigen resolver requires cascade and cache")
	}
	return &antigenResolver{cascade: cascade, dict: dict, fallback: fallback, cache: cache}, nil
}

func (r *antigenResolver) FieldType() ontology.FieldType { return ontology.FieldAntigen }

func (r *antigenResolver) ResolveField(term string) *ontology.ResolutionResult {
	normalized := ontology.Normalize(ontology.FieldAntigen, term)
	return r.cache.GetOrResolve(ontology.FieldAntigen, normalized, func() *ontology.ResolutionResult {
		return r.cascade.Resolve(term, []string{normalized}, r.dict, r.fallback)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Disease resolver — merged DOID+NCIT with additive candidate expansion
// ─────────────────────────────────────────────────────────────────────────────

type diseaseResolver struct {
	cascade *ontology.Cascade
	dict    *ontology.Dictionary
	cache   ResolutionCache
}

// NewDiseaseResolver builds the disease field resolver over the merged
// DOID+NCIT dictionary.  Acronym expansion and synonym variants are generated
// per term and tried through the cascade in order; the hierarchy path is
// attached later, at merge time.
func NewDiseaseResolver(cascade *ontology.Cascade, dict *ontology.Dictionary, cache ResolutionCache) (FieldResolver, error) {
	if cascade == nil || cache == nil {
		return nil, errors.InvalidParam("disease resolver requires cascade and cache")
	}
	return &diseaseResolver{cascade: cascade, dict: dict, cache: cache}, nil
}

func (r *diseaseResolver) FieldType() ontology.FieldType { return ontology.FieldDisease }

func (r *diseaseResolver) ResolveField(term string) *ontology.ResolutionResult {
	normalized := ontology.Normalize(ontology.FieldDisease, term)
	return r.cache.GetOrResolve(ontology.FieldDisease, normalized, func() *ontology.ResolutionResult {
		return r.cascade.Resolve(term, ontology.ExpandDisease(term), r.dict, nil)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Payload and linker resolvers — ChEMBL small molecules, no fallback
// ─────────────────────────────────────────────────────────────────────────────

type smallMoleculeResolver struct {
	field   ontology.FieldType
	cascade *ontology.Cascade
	dict    *ontology.Dictionary
	cache   ResolutionCache
}

// NewPayloadResolver builds the payload field resolver.
func NewPayloadResolver(cascade *ontology.Cascade, dict *ontology.Dictionary, cache ResolutionCache) (FieldResolver, error) {
	return newSmallMoleculeResolver(ontology.FieldPayload, cascade, dict, cache)
}

// NewLinkerResolver builds the linker field resolver.
func NewLinkerResolver(cascade *ontology.Cascade, dict *ontology.Dictionary, cache ResolutionCache) (FieldResolver, error) {
	return newSmallMoleculeResolver(ontology.FieldLinker, cascade, dict, cache)
}

func newSmallMoleculeResolver(field ontology.FieldType, cascade *ontology.Cascade, dict *ontology.Dictionary, cache ResolutionCache) (FieldResolver, error) {
	if cascade == nil || cache == nil {
		return nil, errors.InvalidParam(string(field) + " resolver requires cascade and cache")
	}
	return &smallMoleculeResolver{field: field, cascade: cascade, dict: dict, cache: cache}, nil
}

func (r *smallMoleculeResolver) FieldType() ontology.FieldType { return r.field }

// ResolveField tries the outer and inner parenthetical variants of the term
// in order, returning the first cascade hit.
func (r *smallMoleculeResolver) ResolveField(term string) *ontology.ResolutionResult {
	normalized := ontology.Normalize(r.field, term)
	return r.cache.GetOrResolve(r.field, normalized, func() *ontology.ResolutionResult {
		variants := ontology.ExpandParenthetical(term)
		if len(variants) == 0 {
			return ontology.Unresolved(term, normalized)
		}
		candidates := make([]string, 0, len(variants))
		for _, v := range variants {
			if n := ontology.Normalize(r.field, v); n != "" {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			return ontology.Unresolved(term, normalized)
		}
		res := r.cascade.Resolve(term, candidates, r.dict, nil)
		res.NormalizedTerm = normalized
		return res
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// unknownResolver — stands in for a field whose dictionary failed to build
// ─────────────────────────────────────────────────────────────────────────────

type unknownResolver struct {
	field ontology.FieldType
}

// NewUnknownResolver returns a resolver that marks every term unknown.  The
// pipeline installs it for a field type whose dictionary build failed, so
// entities still carry a match_status for the field while unrelated field
// types resolve normally.
func NewUnknownResolver(field ontology.FieldType) FieldResolver {
	return &unknownResolver{field: field}
}

func (r *unknownResolver) FieldType() ontology.FieldType { return r.field }

func (r *unknownResolver) ResolveField(term string) *ontology.ResolutionResult {
	return ontology.Unresolved(term, ontology.Normalize(r.field, term))
}

//Personal.AI order the ending
