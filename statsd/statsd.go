// Package statsd is a helper package that wraps the statsd calls made by the plugin.
// It hides the datadog dependency so the rest of the module only knows about the emit helpers below.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const (
	SourceSpawn    = "spawn"
	SourceBackfill = "backfill"
)

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// SetClient replaces the global client. Passing nil restores the NoOp client.
func SetClient(c ddstatsd.ClientInterface) {
	if c == nil {
		c = &ddstatsd.NoOpClient{}
	}
	client = c
}

// EmitApplied counts one barrel whose health was set. source is SourceSpawn or SourceBackfill.
func EmitApplied(source string) {
	if err := Client().Incr("barrels.applied", []string{"source:" + source}, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit applied stat: %v", err)
	}
}

// EmitBackfill records the duration and size of a finished backfill run.
func EmitBackfill(start time.Time, visited int) {
	if err := Client().Timing("backfill.duration", time.Since(start), nil, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit backfill duration: %v", err)
	}
	if err := Client().Count("backfill.visited", int64(visited), nil, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit backfill size: %v", err)
	}
}

func EmitBackfillCancelled() {
	if err := Client().Incr("backfill.cancelled", nil, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit backfill cancellation: %v", err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("barrelhealth"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}
	client = newClient
	return nil
}

// Close flushes and closes the global client and restores the NoOp client.
func Close() error {
	c := client
	client = &ddstatsd.NoOpClient{}
	if err := c.Close(); err != nil {
		return eris.Wrap(err, "failed to close statsd client")
	}
	return nil
}
