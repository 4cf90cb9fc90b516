package rules

// Prefab paths of the barrels covered by the default table.
const (
	PrefabLootBarrel1        = "assets/bundled/prefabs/autospawn/resource/loot/loot-barrel-1.prefab"
	PrefabLootBarrel2        = "assets/bundled/prefabs/autospawn/resource/loot/loot-barrel-2.prefab"
	PrefabRadtownLootBarrel1 = "assets/bundled/prefabs/radtown/loot_barrel_1.prefab"
	PrefabRadtownLootBarrel2 = "assets/bundled/prefabs/radtown/loot_barrel_2.prefab"
	PrefabRadtownOilBarrel   = "assets/bundled/prefabs/radtown/oil_barrel.prefab"
)

// DefaultGroups returns a fresh copy of the built-in health groups.
func DefaultGroups() []HealthGroup {
	return []HealthGroup{
		{
			Health:  50,
			Prefabs: []string{PrefabLootBarrel2, PrefabRadtownLootBarrel1},
		},
		{
			Health:  35,
			Prefabs: []string{PrefabLootBarrel1, PrefabRadtownLootBarrel2},
		},
		{
			Health:  50,
			Prefabs: []string{PrefabRadtownOilBarrel},
		},
	}
}

// DefaultTable returns the built-in rule table.
func DefaultTable() *Table {
	return NewTable(DefaultGroups())
}
