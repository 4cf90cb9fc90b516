// Package backfill re-applies barrel health to containers that were already alive when the plugin was reloaded.
// A run visits one container per frame so large maps do not stall the server, and at most one run exists at a time.
package backfill

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/VisEntities/BarrelHealth/host"
	"github.com/VisEntities/BarrelHealth/statsd"
)

// HandleFunc processes one container and reports whether it was updated.
type HandleFunc func(host.Container) bool

// Stats describes a run.
type Stats struct {
	Token   string
	Stage   Stage
	Total   int
	Visited int
	Updated int
	// Skipped counts snapshot entries that were nil or destroyed by the time the run reached them.
	Skipped int
}

type run struct {
	token   string
	stage   Stage
	pending []host.Container
	total   int
	visited int
	updated int
	skipped int
	start   time.Time
	log     zerolog.Logger
}

func (r *run) stats() Stats {
	return Stats{
		Token:   r.token,
		Stage:   r.stage,
		Total:   r.total,
		Visited: r.visited,
		Updated: r.updated,
		Skipped: r.skipped,
	}
}

// Sequencer owns the single backfill slot. Start, Stop and the coroutine steps must all run on the host's frame
// loop; Stage and Last read a published copy of the stats and may be called from any goroutine.
type Sequencer struct {
	scheduler host.Scheduler
	registry  host.Registry
	handle    HandleFunc
	log       zerolog.Logger

	active *run
	last   atomic.Pointer[Stats]
}

func NewSequencer(scheduler host.Scheduler, registry host.Registry, handle HandleFunc, logger zerolog.Logger) *Sequencer {
	return &Sequencer{
		scheduler: scheduler,
		registry:  registry,
		handle:    handle,
		log:       logger,
	}
}

// Start cancels the active run, if any, and starts a new one over the containers alive right now. It returns the
// run token, which is also the coroutine name given to the scheduler.
func (s *Sequencer) Start() string {
	s.Stop()

	token := uuid.NewString()
	pending := s.registry.LootContainers()
	r := &run{
		token:   token,
		stage:   Running,
		pending: pending,
		total:   len(pending),
		start:   time.Now(),
		log:     s.log.With().Str("run", token).Logger(),
	}
	s.active = r
	s.publish(r)

	r.log.Info().Int("containers", r.total).Msg("Starting barrel health backfill")
	s.scheduler.StartCoroutine(token, host.CoroutineFunc(func() bool {
		return s.step(r)
	}))
	return token
}

// step visits one container. Returning is the yield point: the scheduler resumes the run at the next frame.
func (s *Sequencer) step(r *run) bool {
	if r.stage != Running {
		return false
	}
	if len(r.pending) > 0 {
		c := r.pending[0]
		r.pending[0] = nil
		r.pending = r.pending[1:]
		r.visited++
		if gone(c) {
			r.skipped++
		} else if s.handle(c) {
			r.updated++
			statsd.EmitApplied(statsd.SourceBackfill)
		}
	}
	if len(r.pending) > 0 {
		s.publish(r)
		return true
	}
	s.finish(r)
	return false
}

// gone reports whether a snapshot entry no longer refers to a live container.
func gone(c host.Container) bool {
	if host.IsNil(c) {
		return true
	}
	d, ok := c.(host.Destroyable)
	return ok && d.IsDestroyed()
}

func (s *Sequencer) finish(r *run) {
	if !r.end(Completed) {
		return
	}
	if s.active == r {
		s.active = nil
	}
	s.publish(r)
	statsd.EmitBackfill(r.start, r.visited)
	r.log.Info().
		Int("visited", r.visited).
		Int("updated", r.updated).
		Int("skipped", r.skipped).
		Dur("duration", time.Since(r.start)).
		Msg("Barrel health backfill complete")
}

// Stop cancels the active run. Calling it with no active run does nothing.
func (s *Sequencer) Stop() {
	r := s.active
	if r == nil {
		return
	}
	s.active = nil
	if !r.end(Cancelled) {
		return
	}
	s.scheduler.StopCoroutine(r.token)
	s.publish(r)
	statsd.EmitBackfillCancelled()
	r.log.Info().Int("visited", r.visited).Int("total", r.total).Msg("Barrel health backfill cancelled")
}

// Active returns the token of the running backfill.
func (s *Sequencer) Active() (token string, ok bool) {
	if s.active == nil {
		return "", false
	}
	return s.active.token, true
}

// Stage returns the stage of the most recent run, or Idle when none was started.
func (s *Sequencer) Stage() Stage {
	return s.Last().Stage
}

// Last returns the stats of the most recent run.
func (s *Sequencer) Last() Stats {
	if st := s.last.Load(); st != nil {
		return *st
	}
	return Stats{Stage: Idle}
}

func (s *Sequencer) publish(r *run) {
	st := r.stats()
	s.last.Store(&st)
}
