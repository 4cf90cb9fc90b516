package frameloop

import (
	"context"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/VisEntities/BarrelHealth/host"
)

// countdown returns a coroutine that needs n steps and records each one.
func countdown(n int, steps *[]int) host.Coroutine {
	return host.CoroutineFunc(func() bool {
		*steps = append(*steps, n)
		n--
		return n > 0
	})
}

func TestCoroutineStepsOncePerFrame(t *testing.T) {
	loop := New()
	var steps []int
	loop.StartCoroutine("count", countdown(3, &steps))

	assert.Equal(t, 0, len(steps))
	loop.Tick()
	assert.DeepEqual(t, []int{3}, steps)
	loop.Tick()
	assert.DeepEqual(t, []int{3, 2}, steps)
	assert.Check(t, loop.Running("count"))
	loop.Tick()
	assert.DeepEqual(t, []int{3, 2, 1}, steps)
	assert.Check(t, !loop.Running("count"))

	loop.Tick()
	assert.Equal(t, 3, len(steps))
	assert.Equal(t, uint64(4), loop.Frame())
}

func TestStartCoroutineReplacesSameName(t *testing.T) {
	loop := New()
	var first, second []int
	loop.StartCoroutine("job", countdown(5, &first))
	loop.Tick()
	loop.StartCoroutine("job", countdown(2, &second))
	loop.Tick()
	loop.Tick()

	assert.DeepEqual(t, []int{5}, first)
	assert.DeepEqual(t, []int{2, 1}, second)
	assert.Equal(t, 0, loop.Len())
}

func TestStopCoroutine(t *testing.T) {
	loop := New()
	var steps []int
	loop.StartCoroutine("job", countdown(5, &steps))
	loop.Tick()
	loop.StopCoroutine("job")
	loop.StopCoroutine("job")
	loop.StopCoroutine("unknown")
	loop.Tick()

	assert.DeepEqual(t, []int{5}, steps)
	assert.Equal(t, 0, loop.Len())
}

func TestCoroutineStoppedMidFrameDoesNotStep(t *testing.T) {
	loop := New()
	var steps []int
	loop.StartCoroutine("killer", host.CoroutineFunc(func() bool {
		loop.StopCoroutine("victim")
		return false
	}))
	loop.StartCoroutine("victim", countdown(3, &steps))
	loop.Tick()

	assert.Equal(t, 0, len(steps))
	assert.Equal(t, 0, loop.Len())
}

func TestCoroutineRestartedWhileSteppingIsKept(t *testing.T) {
	loop := New()
	var steps []int
	loop.StartCoroutine("job", host.CoroutineFunc(func() bool {
		loop.StartCoroutine("job", countdown(1, &steps))
		return false
	}))
	loop.Tick()
	assert.Check(t, loop.Running("job"))
	loop.Tick()
	assert.DeepEqual(t, []int{1}, steps)
	assert.Check(t, !loop.Running("job"))
}

func TestPostRunsBeforeCoroutines(t *testing.T) {
	loop := New()
	var order []string
	loop.StartCoroutine("job", host.CoroutineFunc(func() bool {
		order = append(order, "step")
		return false
	}))
	loop.Post(func() { order = append(order, "posted") })
	loop.Tick()

	assert.DeepEqual(t, []string{"posted", "step"}, order)
}

func TestStopAll(t *testing.T) {
	loop := New()
	var a, b []int
	loop.StartCoroutine("a", countdown(3, &a))
	loop.StartCoroutine("b", countdown(3, &b))
	loop.StopAll()
	loop.Tick()
	assert.Equal(t, 0, len(a)+len(b))
}

func TestRunUsesTickChannel(t *testing.T) {
	tickCh := make(chan time.Time)
	doneCh := make(chan uint64)
	loop := New(WithTickChannel(tickCh), WithTickDoneChannel(doneCh))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- loop.Run(ctx)
	}()

	posted := make(chan struct{})
	loop.Post(func() { close(posted) })
	tickCh <- time.Now()
	assert.Equal(t, uint64(1), <-doneCh)
	<-posted

	tickCh <- time.Now()
	assert.Equal(t, uint64(2), <-doneCh)

	cancel()
	assert.NilError(t, <-errCh)
}
