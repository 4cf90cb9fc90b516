// Package frameloop is a single-goroutine frame scheduler. Each frame first runs the functions posted since the
// previous frame, then advances every running coroutine by one step. It is the reference implementation of
// host.Scheduler used by the simulator and the tests.
package frameloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/VisEntities/BarrelHealth/host"
)

const DefaultFrameRate = 30

var _ host.Scheduler = (*Loop)(nil)

type entry struct {
	name string
	co   host.Coroutine
}

type Loop struct {
	mu         sync.Mutex
	coroutines map[string]*entry
	order      []*entry
	posted     []func()

	frame           atomic.Uint64
	tickChannel     <-chan time.Time
	tickDoneChannel chan<- uint64
	log             zerolog.Logger
}

type Option func(*Loop)

// WithTickChannel sets the channel that decides when a frame runs. If unset, Run ticks DefaultFrameRate times per
// second. Tests can pass a channel they control for fine-grained control over frames.
func WithTickChannel(ch <-chan time.Time) Option {
	return func(l *Loop) {
		l.tickChannel = ch
	}
}

// WithTickDoneChannel sets a channel that receives the frame number each time Run finishes a frame.
func WithTickDoneChannel(ch chan<- uint64) Option {
	return func(l *Loop) {
		l.tickDoneChannel = ch
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loop) {
		l.log = logger
	}
}

func New(opts ...Option) *Loop {
	l := &Loop{
		coroutines: map[string]*entry{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StartCoroutine registers co under name. A coroutine already registered under name is stopped first. The first
// step runs on the next frame.
func (l *Loop) StartCoroutine(name string, co host.Coroutine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(name)
	e := &entry{name: name, co: co}
	l.coroutines[name] = e
	l.order = append(l.order, e)
	l.log.Debug().Str("coroutine", name).Msg("Started coroutine")
}

// StopCoroutine removes the coroutine registered under name. Unknown names are ignored.
func (l *Loop) StopCoroutine(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.removeLocked(name) {
		l.log.Debug().Str("coroutine", name).Msg("Stopped coroutine")
	}
}

// StopAll removes every coroutine.
func (l *Loop) StopAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coroutines = map[string]*entry{}
	l.order = nil
}

// Running reports whether a coroutine is registered under name.
func (l *Loop) Running(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.coroutines[name]
	return ok
}

// Len returns the number of registered coroutines.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.coroutines)
}

// Post queues fn to run at the start of the next frame, on the goroutine that runs the frame.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posted = append(l.posted, fn)
}

// Frame returns the number of completed frames.
func (l *Loop) Frame() uint64 {
	return l.frame.Load()
}

// Tick runs one frame and returns its number.
func (l *Loop) Tick() uint64 {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	l.mu.Lock()
	batch := make([]*entry, len(l.order))
	copy(batch, l.order)
	l.mu.Unlock()

	for _, e := range batch {
		if !l.live(e) {
			// Stopped by an earlier coroutine in this frame.
			continue
		}
		if !e.co.Step() {
			l.finish(e)
		}
	}
	return l.frame.Add(1)
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	tickChannel := l.tickChannel
	if tickChannel == nil {
		ticker := time.NewTicker(time.Second / DefaultFrameRate)
		defer ticker.Stop()
		tickChannel = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tickChannel:
			frame := l.Tick()
			if l.tickDoneChannel != nil {
				l.tickDoneChannel <- frame
			}
		}
	}
}

func (l *Loop) live(e *entry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coroutines[e.name] == e
}

func (l *Loop) finish(e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.coroutines[e.name] != e {
		// Restarted under the same name while stepping; keep the new one.
		return
	}
	l.removeLocked(e.name)
	l.log.Debug().Str("coroutine", e.name).Msg("Coroutine finished")
}

func (l *Loop) removeLocked(name string) bool {
	e, ok := l.coroutines[name]
	if !ok {
		return false
	}
	delete(l.coroutines, name)
	for i, o := range l.order {
		if o == e {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}
