package ontology

import (
	"regexp"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Term normalization
//
// Normalize is applied before any matching.  It is deterministic, pure, and
// idempotent: Normalize(field, Normalize(field, x)) == Normalize(field, x).
// Gene symbols keep their hyphens (HER-2 vs HER2 are distinct surface forms
// handled via aliases); parenthetical qualifiers are stripped everywhere.
// ─────────────────────────────────────────────────────────────────────────────

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	// Antigen symbols are compared in HGNC style: uppercase alphanumerics
	// plus hyphen, everything else removed.
	antigenStripRe = regexp.MustCompile(`[^A-Z0-9-]`)
	// For the remaining fields punctuation collapses to spaces, with hyphens
	// preserved inside tokens.
	punctToSpaceRe = regexp.MustCompile(`[^\p{L}\p{N}\- ]+`)
)

// cancerAcronyms maps common oncology acronyms to their expanded forms.
// Expansion is additive: both the acronym and the expansion are kept as
// candidate terms for disease resolution.
var cancerAcronyms = map[string]string{
	"nsclc": "non-small cell lung cancer",
	"sclc":  "small cell lung cancer",
	"aml":   "acute myeloid leukemia",
	"all":   "acute lymphoblastic leukemia",
	"cll":   "chronic lymphocytic leukemia",
	"dlbcl": "diffuse large b-cell lymphoma",
	"crc":   "colorectal cancer",
	"crpc":  "castration-resistant prostate cancer",
	"escc":  "esophageal squamous cell carcinoma",
	"hcc":   "hepatocellular carcinoma",
	"rcc":   "renal cell carcinoma",
	"tnbc":  "triple-negative breast cancer",
	"gbm":   "glioblastoma",
	"mm":    "multiple myeloma",
	"ews":   "ewing sarcoma",
	"hnscc": "head and neck squamous cell carcinoma",
	"uc":    "urothelial carcinoma",
}

// Normalize applies the field-specific deterministic cleanup used as the key
// for dictionary lookups and the resolution cache.
func Normalize(field FieldType, raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = parentheticalRe.ReplaceAllString(s, "")

	switch field {
	case FieldAntigen:
		s = strings.ToUpper(s)
		s = antigenStripRe.ReplaceAllString(s, "")
		s = strings.Trim(s, "-")
	case FieldDisease:
		// Disease labels collapse hyphen and case variance so that
		// "Triple Negative Breast Cancer" and "triple-negative breast
		// cancer" normalize identically.
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "-", " ")
		s = punctToSpaceRe.ReplaceAllString(s, " ")
		s = whitespaceRe.ReplaceAllString(s, " ")
		s = strings.TrimSpace(s)
	default:
		s = strings.ToLower(s)
		s = punctToSpaceRe.ReplaceAllString(s, " ")
		s = whitespaceRe.ReplaceAllString(s, " ")
		s = strings.TrimSpace(s)
	}
	return s
}

// ExpandDisease returns the candidate normalized terms for a disease mention:
// the normalized term itself, its acronym expansion when the term is a known
// oncology acronym, and cancer/carcinoma/tumor interchanged variants.  The
// first element is always the plain normalized term; callers try candidates
// in order and stop at the first cascade hit.
func ExpandDisease(raw string) []string {
	base := Normalize(FieldDisease, raw)
	if base == "" {
		return nil
	}
	seen := map[string]bool{base: true}
	out := []string{base}

	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}

	if expansion, ok := cancerAcronyms[base]; ok {
		add(Normalize(FieldDisease, expansion))
	}

	// Surface-form interchange observed across DOID and NCIT labels.
	if strings.Contains(base, "cancer") {
		add(strings.ReplaceAll(base, "cancer", "carcinoma"))
		add(strings.ReplaceAll(base, "cancer", "tumor"))
	}
	if strings.Contains(base, "carcinoma") {
		add(strings.ReplaceAll(base, "carcinoma", "cancer"))
	}
	if strings.Contains(base, "tumor") {
		add(strings.ReplaceAll(base, "tumor", "cancer"))
	}
	return out
}

// ExpandParenthetical splits "name (inner)" small-molecule mentions into the
// outer and inner surface forms, e.g. "MMAE (vedotin)" → ["MMAE", "vedotin"].
// Terms shorter than three characters are dropped; a term without a
// parenthetical comes back as a single-element slice.
func ExpandParenthetical(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	open := strings.Index(raw, "(")
	end := strings.LastIndex(raw, ")")
	if open < 0 || end < open {
		if len(raw) < 3 {
			return nil
		}
		return []string{raw}
	}
	outer := strings.TrimSpace(raw[:open])
	inner := strings.TrimSpace(raw[open+1 : end])
	var out []string
	if len(outer) >= 3 {
		out = append(out, outer)
	}
	if len(inner) >= 3 {
		out = append(out, inner)
	}
	return out
}

//Personal.AI order the ending
