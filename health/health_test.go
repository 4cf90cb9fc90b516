package health

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"gotest.tools/v3/assert"

	"github.com/VisEntities/BarrelHealth/rules"
)

type mockContainer struct {
	mock.Mock
}

func (m *mockContainer) PrefabName() string {
	return m.Called().String(0)
}

func (m *mockContainer) InitializeHealth(current, max float64) {
	m.Called(current, max)
}

func (m *mockContainer) SendNetworkUpdateImmediate() {
	m.Called()
}

// fakeContainer records state instead of expectations.
type fakeContainer struct {
	prefab      string
	health      float64
	maxHealth   float64
	syncs       int
	initializes int
}

func (f *fakeContainer) PrefabName() string { return f.prefab }

func (f *fakeContainer) InitializeHealth(current, max float64) {
	f.initializes++
	f.health = current
	f.maxHealth = max
}

func (f *fakeContainer) SendNetworkUpdateImmediate() { f.syncs++ }

func TestIsBarrel(t *testing.T) {
	assert.Check(t, IsBarrel(&fakeContainer{prefab: rules.PrefabRadtownOilBarrel}))
	assert.Check(t, IsBarrel(&fakeContainer{prefab: rules.PrefabLootBarrel1}))
	assert.Check(t, !IsBarrel(&fakeContainer{prefab: "assets/bundled/prefabs/radtown/crate_basic.prefab"}))
	assert.Check(t, !IsBarrel(nil))
	assert.Check(t, !IsBarrel((*fakeContainer)(nil)))
}

func TestApplySetsHealthThenSyncs(t *testing.T) {
	c := &mockContainer{}
	initCall := c.On("InitializeHealth", 50.0, 50.0).Return().Once()
	c.On("SendNetworkUpdateImmediate").Return().Once().NotBefore(initCall)

	Apply(c, 50)

	c.AssertExpectations(t)
}

func TestApplyIsIdempotent(t *testing.T) {
	once := &fakeContainer{prefab: rules.PrefabRadtownOilBarrel, health: 3, maxHealth: 100}
	twice := &fakeContainer{prefab: rules.PrefabRadtownOilBarrel, health: 3, maxHealth: 100}

	Apply(once, 35)
	Apply(twice, 35)
	Apply(twice, 35)

	assert.Equal(t, once.health, twice.health)
	assert.Equal(t, once.maxHealth, twice.maxHealth)
	assert.Equal(t, 35.0, twice.health)
	assert.Equal(t, 35.0, twice.maxHealth)
}

func TestHandle(t *testing.T) {
	applier := NewApplier(rules.NewIndex(rules.DefaultTable()), zerolog.Nop())

	t.Run("matched barrel", func(t *testing.T) {
		c := &fakeContainer{prefab: rules.PrefabRadtownLootBarrel1, health: 150, maxHealth: 150}
		assert.Check(t, applier.Handle(c))
		assert.Equal(t, 50.0, c.health)
		assert.Equal(t, 50.0, c.maxHealth)
		assert.Equal(t, 1, c.syncs)
	})

	t.Run("not a barrel", func(t *testing.T) {
		c := &mockContainer{}
		c.On("PrefabName").Return("assets/bundled/prefabs/radtown/crate_basic.prefab")
		assert.Check(t, !applier.Handle(c))
		c.AssertNotCalled(t, "InitializeHealth", mock.Anything, mock.Anything)
		c.AssertNotCalled(t, "SendNetworkUpdateImmediate")
	})

	t.Run("unlisted barrel", func(t *testing.T) {
		c := &fakeContainer{prefab: "assets/prefabs/misc/decor_dlc/barrel_decor.prefab", health: 20, maxHealth: 20}
		assert.Check(t, !applier.Handle(c))
		assert.Equal(t, 20.0, c.health)
		assert.Equal(t, 0, c.initializes)
		assert.Equal(t, 0, c.syncs)
	})

	t.Run("nil container", func(t *testing.T) {
		assert.Check(t, !applier.Handle(nil))
		assert.Check(t, !applier.Handle((*fakeContainer)(nil)))
		assert.Check(t, !applier.Handle((*mockContainer)(nil)))
	})
}

func TestHandleWithEmptyTable(t *testing.T) {
	applier := NewApplier(rules.NewTable(nil), zerolog.Nop())
	c := &fakeContainer{prefab: rules.PrefabRadtownOilBarrel, health: 20, maxHealth: 20}
	assert.Check(t, !applier.Handle(c))
	assert.Equal(t, 0, c.initializes)
}
