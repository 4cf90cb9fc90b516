package rules

// Index is a constant-time lookup built from a Table. A prefab listed in several groups keeps the health of the
// first group it appears in, so Index.Match always agrees with Table.Match.
type Index struct {
	health map[string]float64
}

func NewIndex(t *Table) *Index {
	idx := &Index{health: make(map[string]float64)}
	if t == nil {
		return idx
	}
	for _, g := range t.groups {
		for _, p := range g.Prefabs {
			if _, seen := idx.health[p]; seen {
				continue
			}
			idx.health[p] = g.Health
		}
	}
	return idx
}

func (i *Index) Match(prefab string) (float64, bool) {
	if i == nil {
		return 0, false
	}
	h, ok := i.health[prefab]
	return h, ok
}

// Len returns the number of distinct prefabs in the index.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.health)
}
