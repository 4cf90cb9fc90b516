package main

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/VisEntities/BarrelHealth/config"
)

func newConfigCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration document",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration, replacing any existing one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := state.settings.OpenStore()
				if err != nil {
					return err
				}
				data, err := config.Encode(config.Default())
				if err != nil {
					return err
				}
				if err = store.Write(cmd.Context(), data); err != nil {
					return eris.Wrap(err, "failed to write default configuration")
				}
				cmd.Printf("Wrote default configuration to %s store\n", state.settings.ConfigStore)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Load, migrate and print the configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := state.settings.OpenStore()
				if err != nil {
					return err
				}
				doc := config.NewLoader(store, config.WithLogger(log.Logger)).Load(cmd.Context())
				data, err := config.Encode(doc)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}
			cmd.Println(string(schema))
			return nil
		},
	}
}
