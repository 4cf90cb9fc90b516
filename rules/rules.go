// Package rules holds the barrel health rule table and the prefab matcher that resolves a prefab to a health value.
package rules

// HealthGroup is a set of prefabs that share one health value.
type HealthGroup struct {
	Health  float64
	Prefabs []string
}

// Contains reports whether prefab is a member of the group.
func (g HealthGroup) Contains(prefab string) bool {
	for _, p := range g.Prefabs {
		if p == prefab {
			return true
		}
	}
	return false
}

func (g HealthGroup) clone() HealthGroup {
	prefabs := make([]string, len(g.Prefabs))
	copy(prefabs, g.Prefabs)
	return HealthGroup{Health: g.Health, Prefabs: prefabs}
}

// Table is an ordered list of health groups. Group order defines match priority. A Table is never mutated after
// NewTable returns; a configuration reload builds a new one.
type Table struct {
	groups []HealthGroup
}

// NewTable copies groups into a new Table.
func NewTable(groups []HealthGroup) *Table {
	t := &Table{groups: make([]HealthGroup, 0, len(groups))}
	for _, g := range groups {
		t.groups = append(t.groups, g.clone())
	}
	return t
}

// Groups returns a copy of the table's groups in priority order.
func (t *Table) Groups() []HealthGroup {
	if t == nil {
		return nil
	}
	out := make([]HealthGroup, 0, len(t.groups))
	for _, g := range t.groups {
		out = append(out, g.clone())
	}
	return out
}

// Len returns the number of groups.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.groups)
}

// Match returns the health of the first group containing prefab. ok is false when no group contains it, in which
// case the caller must leave the entity alone.
func (t *Table) Match(prefab string) (health float64, ok bool) {
	if t == nil {
		return 0, false
	}
	for _, g := range t.groups {
		if g.Contains(prefab) {
			return g.Health, true
		}
	}
	return 0, false
}

// Matcher resolves a prefab to a health value. Both *Table and *Index implement it.
type Matcher interface {
	Match(prefab string) (health float64, ok bool)
}

var (
	_ Matcher = (*Table)(nil)
	_ Matcher = (*Index)(nil)
)
