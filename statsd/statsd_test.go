package statsd

import (
	"testing"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"gotest.tools/v3/assert"
)

type recordingClient struct {
	*ddstatsd.NoOpClient
	incr   map[string][]string
	counts map[string]int64
	timing []string
}

func newRecordingClient() *recordingClient {
	return &recordingClient{
		NoOpClient: &ddstatsd.NoOpClient{},
		incr:       map[string][]string{},
		counts:     map[string]int64{},
	}
}

func (r *recordingClient) Incr(name string, tags []string, _ float64) error {
	r.incr[name] = append(r.incr[name], tags...)
	return nil
}

func (r *recordingClient) Count(name string, value int64, _ []string, _ float64) error {
	r.counts[name] += value
	return nil
}

func (r *recordingClient) Timing(name string, _ time.Duration, _ []string, _ float64) error {
	r.timing = append(r.timing, name)
	return nil
}

func TestEmitHelpers(t *testing.T) {
	rec := newRecordingClient()
	SetClient(rec)
	t.Cleanup(func() { SetClient(nil) })

	EmitApplied(SourceSpawn)
	EmitApplied(SourceBackfill)
	EmitBackfill(time.Now(), 7)
	EmitBackfillCancelled()

	assert.DeepEqual(t, []string{"source:spawn", "source:backfill"}, rec.incr["barrels.applied"])
	assert.Equal(t, int64(7), rec.counts["backfill.visited"])
	assert.DeepEqual(t, []string{"backfill.duration"}, rec.timing)
	assert.Equal(t, 1, len(rec.incr["backfill.cancelled"]))
}

func TestInitRequiresAddress(t *testing.T) {
	assert.ErrorContains(t, Init("", nil), "address must not be empty")
}

func TestSetClientNilRestoresNoOp(t *testing.T) {
	SetClient(nil)
	_, ok := Client().(*ddstatsd.NoOpClient)
	assert.Check(t, ok)
}
