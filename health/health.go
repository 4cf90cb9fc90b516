// Package health applies configured health values to barrel containers.
package health

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/VisEntities/BarrelHealth/host"
	"github.com/VisEntities/BarrelHealth/rules"
)

// BarrelMarker appears in the prefab path of every barrel-family container.
const BarrelMarker = "barrel"

// IsBarrel reports whether c is a non-nil container whose prefab belongs to the barrel family.
func IsBarrel(c host.Container) bool {
	return !host.IsNil(c) && strings.Contains(c.PrefabName(), BarrelMarker)
}

// Apply resets c to full health at the new maximum and syncs it to observers right away. Applying the same value
// twice leaves the entity in the same state as applying it once.
func Apply(c host.Container, health float64) {
	c.InitializeHealth(health, health)
	c.SendNetworkUpdateImmediate()
}

// Applier runs the filter, match and apply pipeline for single containers.
type Applier struct {
	matcher rules.Matcher
	log     zerolog.Logger
}

func NewApplier(matcher rules.Matcher, logger zerolog.Logger) *Applier {
	return &Applier{matcher: matcher, log: logger}
}

// Handle applies the matching health to c. It returns false and leaves c untouched when c is not a barrel or no
// group lists its prefab.
func (a *Applier) Handle(c host.Container) bool {
	if !IsBarrel(c) {
		return false
	}
	prefab := c.PrefabName()
	value, ok := a.matcher.Match(prefab)
	if !ok {
		return false
	}
	Apply(c, value)
	a.log.Debug().Str("prefab", prefab).Float64("health", value).Msg("Applied barrel health")
	return true
}
