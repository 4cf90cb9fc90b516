// Package barrelhealth sets custom health for loot barrels. A Plugin is created by the host, receives the server
// lifecycle hooks and applies the configured health to barrels as they spawn, and to every live barrel after a
// hot reload.
package barrelhealth

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/VisEntities/BarrelHealth/backfill"
	"github.com/VisEntities/BarrelHealth/config"
	"github.com/VisEntities/BarrelHealth/health"
	"github.com/VisEntities/BarrelHealth/host"
	"github.com/VisEntities/BarrelHealth/rules"
	"github.com/VisEntities/BarrelHealth/statsd"
)

const (
	Name    = "Barrel Health"
	Author  = "VisEntities"
	Version = config.CurrentVersion
)

// Plugin holds everything the plugin needs between hooks. All hooks must be called from the host's frame loop.
type Plugin struct {
	store     config.Store
	scheduler host.Scheduler
	registry  host.Registry
	log       zerolog.Logger

	doc     *config.Document
	table   *rules.Table
	applier *health.Applier

	// spawnEnabled gates OnLootSpawn. It is off until the server has finished initializing so the host's own
	// bulk spawning at startup does not go through the plugin twice.
	spawnEnabled atomic.Bool
	backfill     *backfill.Sequencer
}

func New(store config.Store, scheduler host.Scheduler, registry host.Registry, opts ...Option) *Plugin {
	p := &Plugin{
		store:     store,
		scheduler: scheduler,
		registry:  registry,
		log:       defaultLogger(),
		table:     rules.NewTable(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.applier = health.NewApplier(rules.NewIndex(p.table), p.log)
	p.backfill = backfill.NewSequencer(scheduler, registry, p.applyBackfill, p.log)
	return p
}

// Init disables spawn handling and loads the configuration.
func (p *Plugin) Init(ctx context.Context) {
	p.spawnEnabled.Store(false)
	p.loadConfig(ctx)
}

// OnServerInitialized enables spawn handling. After a hot reload, when isStartup is false, the barrels that are
// already alive are updated in the background.
func (p *Plugin) OnServerInitialized(isStartup bool) {
	p.spawnEnabled.Store(true)
	if !isStartup {
		p.backfill.Start()
	}
}

// OnLootSpawn applies the configured health to a newly spawned barrel. It reports whether the container was
// updated.
func (p *Plugin) OnLootSpawn(c host.Container) bool {
	if !p.spawnEnabled.Load() {
		return false
	}
	if !p.applier.Handle(c) {
		return false
	}
	statsd.EmitApplied(statsd.SourceSpawn)
	return true
}

// Reload reads the configuration again, replacing the rule table, and updates every live barrel.
func (p *Plugin) Reload(ctx context.Context) {
	p.loadConfig(ctx)
	p.OnServerInitialized(false)
}

// Unload stops the background update and drops the configuration.
func (p *Plugin) Unload() {
	p.backfill.Stop()
	p.spawnEnabled.Store(false)
	p.setDocument(nil)
	p.log.Info().Msg("Unloaded")
}

// Table returns the rule table in use.
func (p *Plugin) Table() *rules.Table {
	return p.table
}

// Config returns the loaded configuration document, or nil before Init and after Unload.
func (p *Plugin) Config() *config.Document {
	return p.doc
}

// SpawnHandlingEnabled reports whether OnLootSpawn currently acts on containers.
func (p *Plugin) SpawnHandlingEnabled() bool {
	return p.spawnEnabled.Load()
}

// Backfill returns the sequencer that runs the post-reload update.
func (p *Plugin) Backfill() *backfill.Sequencer {
	return p.backfill
}

func (p *Plugin) loadConfig(ctx context.Context) {
	loader := config.NewLoader(p.store, config.WithLogger(p.log))
	p.setDocument(loader.Load(ctx))
	p.log.Info().Int("groups", p.table.Len()).Str("version", p.doc.Version).Msg("Loaded configuration")
}

func (p *Plugin) setDocument(doc *config.Document) {
	p.doc = doc
	p.table = doc.Table()
	p.applier = health.NewApplier(rules.NewIndex(p.table), p.log)
}

// applyBackfill is the per-container step of the backfill. It goes through the same filter as spawns but ignores
// the spawn gate, which is always open by the time a backfill runs.
func (p *Plugin) applyBackfill(c host.Container) bool {
	return p.applier.Handle(c)
}
