package ontology

// DiseaseHierarchy holds precomputed ancestor paths for disease entities,
// keyed by primary ID.  Paths are ordered root first.  The hierarchy is
// computed once from the DOID graph during dictionary preparation and treated
// as read-only input here; no graph traversal happens per query.
type DiseaseHierarchy struct {
	paths map[string][][]string
}

// NewDiseaseHierarchy constructs a hierarchy from precomputed root-first
// label paths per disease ID.
func NewDiseaseHierarchy(paths map[string][][]string) *DiseaseHierarchy {
	if paths == nil {
		paths = make(map[string][][]string)
	}
	return &DiseaseHierarchy{paths: paths}
}

// PathsFor returns every root-first ancestor path recorded for a disease ID.
func (h *DiseaseHierarchy) PathsFor(id string) [][]string {
	if h == nil {
		return nil
	}
	return h.paths[id]
}

// PrimaryPathFor returns the first recorded ancestor path for a disease ID,
// or nil when the hierarchy has no entry.
func (h *DiseaseHierarchy) PrimaryPathFor(id string) []string {
	ps := h.PathsFor(id)
	if len(ps) == 0 {
		return nil
	}
	return ps[0]
}

// Size returns the number of disease IDs with recorded paths.
func (h *DiseaseHierarchy) Size() int {
	if h == nil {
		return 0
	}
	return len(h.paths)
}

//Personal.AI order the ending
