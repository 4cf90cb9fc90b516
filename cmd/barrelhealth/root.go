package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	barrelhealth "github.com/VisEntities/BarrelHealth"
	"github.com/VisEntities/BarrelHealth/statsd"
)

// cliState is filled by the root command before any subcommand runs.
type cliState struct {
	settings barrelhealth.Settings
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "barrelhealth",
		Short:         "Custom health for loot barrels",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			settings, err := barrelhealth.LoadSettings()
			if err != nil {
				return err
			}
			state.settings = settings

			if err = barrelhealth.SetLogLevel(settings.LogLevel); err != nil {
				return err
			}
			if settings.LogPretty {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			}

			if settings.StatsdAddress != "" {
				if err = statsd.Init(settings.StatsdAddress, []string{"plugin:barrelhealth"}); err != nil {
					return eris.Wrap(err, "unable to init statsd")
				}
			} else {
				log.Logger.Debug().Msg("statsd is disabled")
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return statsd.Close()
		},
	}

	rootCmd.AddCommand(
		newSimulateCmd(state),
		newConfigCmd(state),
		newSchemaCmd(),
	)
	return rootCmd
}
