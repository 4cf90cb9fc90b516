package barrelhealth

import (
	"os"

	"github.com/rs/zerolog"
)

// Option represents an option that can be used to augment how the Plugin will be run.
type Option func(*Plugin)

// WithLogger sets the logger. Every line written by the plugin carries component=barrelhealth.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Plugin) {
		p.log = logger.With().Str("component", "barrelhealth").Logger()
	}
}

// WithPrettyLog writes human-readable logs to stderr instead of JSON.
func WithPrettyLog() Option {
	return func(p *Plugin) {
		p.log = p.log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
