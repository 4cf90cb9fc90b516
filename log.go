package barrelhealth

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func defaultLogger() zerolog.Logger {
	return log.Logger.With().Str("component", "barrelhealth").Logger()
}

// SetLogLevel parses level and sets it as the global zerolog level.
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return eris.Wrapf(err, "invalid log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
