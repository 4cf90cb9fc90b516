package host

import (
	"testing"

	"gotest.tools/v3/assert"
)

type pointerContainer struct{ prefab string }

func (c *pointerContainer) PrefabName() string            { return c.prefab }
func (c *pointerContainer) InitializeHealth(_, _ float64) {}
func (c *pointerContainer) SendNetworkUpdateImmediate()   {}

type valueContainer struct{ prefab string }

func (c valueContainer) PrefabName() string            { return c.prefab }
func (c valueContainer) InitializeHealth(_, _ float64) {}
func (c valueContainer) SendNetworkUpdateImmediate()   {}

func TestIsNil(t *testing.T) {
	var typed *pointerContainer
	assert.Check(t, IsNil(nil))
	assert.Check(t, IsNil(typed))
	assert.Check(t, !IsNil(&pointerContainer{prefab: "barrel"}))
	assert.Check(t, !IsNil(valueContainer{}))
}
