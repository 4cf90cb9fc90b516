// Package memhost is an in-memory game world that implements the host interfaces. It spawns containers with the
// server's stock health, notifies spawn listeners and counts network updates, which is enough to drive the plugin
// end to end without a game server.
package memhost

import (
	"sort"

	"github.com/VisEntities/BarrelHealth/host"
	"github.com/VisEntities/BarrelHealth/rules"
)

// DefaultHealth is the stock health of a container whose prefab has no entry in StockHealth.
const DefaultHealth = 100

// StockHealth is the health the server gives containers before any plugin touches them.
var StockHealth = map[string]float64{
	rules.PrefabLootBarrel1:        50,
	rules.PrefabLootBarrel2:        75,
	rules.PrefabRadtownLootBarrel1: 75,
	rules.PrefabRadtownLootBarrel2: 50,
	rules.PrefabRadtownOilBarrel:   75,
}

var (
	_ host.Container = (*Container)(nil)
	_ host.Registry  = (*World)(nil)
)

type Container struct {
	id        uint64
	prefab    string
	health    float64
	maxHealth float64
	syncs     int
	destroyed bool
}

func (c *Container) ID() uint64         { return c.id }
func (c *Container) PrefabName() string { return c.prefab }
func (c *Container) Health() float64    { return c.health }
func (c *Container) MaxHealth() float64 { return c.maxHealth }

// NetworkUpdates returns how many immediate network updates were sent for the container.
func (c *Container) NetworkUpdates() int { return c.syncs }

func (c *Container) IsDestroyed() bool { return c.destroyed }

func (c *Container) InitializeHealth(current, max float64) {
	c.maxHealth = max
	c.health = current
}

func (c *Container) SendNetworkUpdateImmediate() {
	c.syncs++
}

// SpawnListener is called after a loot container is spawned.
type SpawnListener func(host.Container)

// World holds the live containers. It is not safe for concurrent use; drive it from the frame loop.
type World struct {
	nextID     uint64
	containers map[uint64]*Container
	listeners  []SpawnListener
}

func NewWorld() *World {
	return &World{
		nextID:     1,
		containers: map[uint64]*Container{},
	}
}

// OnLootSpawn adds a listener for container spawns.
func (w *World) OnLootSpawn(fn SpawnListener) {
	w.listeners = append(w.listeners, fn)
}

// Spawn creates a container with its stock health and notifies every spawn listener.
func (w *World) Spawn(prefab string) *Container {
	c := w.add(prefab)
	for _, fn := range w.listeners {
		fn(c)
	}
	return c
}

// Populate creates count containers of each prefab without notifying spawn listeners, the way a saved map is
// restored before plugins are loaded.
func (w *World) Populate(counts map[string]int) {
	prefabs := make([]string, 0, len(counts))
	for p := range counts {
		prefabs = append(prefabs, p)
	}
	sort.Strings(prefabs)
	for _, p := range prefabs {
		for i := 0; i < counts[p]; i++ {
			w.add(p)
		}
	}
}

// Destroy removes c from the world.
func (w *World) Destroy(c *Container) {
	c.destroyed = true
	delete(w.containers, c.id)
}

// LootContainers returns the live containers in spawn order.
func (w *World) LootContainers() []host.Container {
	live := w.Containers()
	out := make([]host.Container, 0, len(live))
	for _, c := range live {
		out = append(out, c)
	}
	return out
}

// Containers returns the live containers in spawn order.
func (w *World) Containers() []*Container {
	out := make([]*Container, 0, len(w.containers))
	for _, c := range w.containers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].id < out[j].id
	})
	return out
}

func (w *World) add(prefab string) *Container {
	health, ok := StockHealth[prefab]
	if !ok {
		health = DefaultHealth
	}
	c := &Container{
		id:        w.nextID,
		prefab:    prefab,
		health:    health,
		maxHealth: health,
	}
	w.nextID++
	w.containers[c.id] = c
	return c
}
