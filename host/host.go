// Package host declares what the plugin consumes from the game server it runs in. The server owns every entity and
// the frame loop; the plugin only reads prefab names, writes health through InitializeHealth and schedules
// coroutines.
package host

import "reflect"

// Container is a live loot container entity.
type Container interface {
	// PrefabName is the template path the entity was spawned from. It never changes for the entity's lifetime.
	PrefabName() string
	// InitializeHealth sets the current and maximum health of the entity.
	InitializeHealth(current, max float64)
	// SendNetworkUpdateImmediate pushes the entity state to observers without waiting for the periodic sync.
	SendNetworkUpdateImmediate()
}

// Destroyable is implemented by containers that can tell whether they were removed from the world.
type Destroyable interface {
	IsDestroyed() bool
}

// IsNil reports whether c is nil or wraps a nil pointer. Hosts may hand over typed nil references.
func IsNil(c Container) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Registry lists live entities.
type Registry interface {
	// LootContainers returns the loot containers alive at the time of the call.
	LootContainers() []Container
}

// Coroutine is a cooperative background sequence. Each Step performs a bounded amount of work and returns; the
// scheduler calls Step again at the next frame boundary while it reports more work.
type Coroutine interface {
	Step() (more bool)
}

// CoroutineFunc adapts a function to the Coroutine interface.
type CoroutineFunc func() bool

func (f CoroutineFunc) Step() bool {
	return f()
}

// Scheduler runs named coroutines on the server's frame loop. Starting a name that is already running replaces it.
// Stopping an unknown name does nothing.
type Scheduler interface {
	StartCoroutine(name string, co Coroutine)
	StopCoroutine(name string)
}
