package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	barrelhealth "github.com/VisEntities/BarrelHealth"
	"github.com/VisEntities/BarrelHealth/backfill"
	"github.com/VisEntities/BarrelHealth/config"
	"github.com/VisEntities/BarrelHealth/frameloop"
	"github.com/VisEntities/BarrelHealth/host"
	"github.com/VisEntities/BarrelHealth/memhost"
	"github.com/VisEntities/BarrelHealth/rules"
)

const crateBasic = "assets/bundled/prefabs/radtown/crate_basic.prefab"

type simulateFlags struct {
	containers    int
	frameRate     int
	embeddedRedis bool
	timeout       time.Duration
}

func newSimulateCmd(state *cliState) *cobra.Command {
	flags := simulateFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Boot an in-memory server, hot reload the plugin and print the resulting barrel health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openSimulationStore(state, flags.embeddedRedis)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			world, err := simulate(ctx, store, state.settings, flags)
			if err != nil {
				return err
			}
			return printWorld(cmd, world)
		},
	}
	cmd.Flags().IntVar(&flags.containers, "containers", 5, "containers of each prefab restored before boot")
	cmd.Flags().IntVar(&flags.frameRate, "frame-rate", frameloop.DefaultFrameRate, "frames per second")
	cmd.Flags().BoolVar(&flags.embeddedRedis, "embedded-redis", false,
		"keep the configuration in an in-process redis instead of the configured store")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", time.Minute, "give up if the backfill has not finished by then")
	return cmd
}

func openSimulationStore(state *cliState, embedded bool) (config.Store, func(), error) {
	if !embedded {
		store, err := state.settings.OpenStore()
		return store, func() {}, err
	}
	server, err := miniredis.Run()
	if err != nil {
		return nil, nil, eris.Wrap(err, "failed to start embedded redis")
	}
	store := config.NewRedisStore(config.RedisOptions{Addr: server.Addr()}, state.settings.RedisNamespace)
	return store, func() {
		_ = store.Close()
		server.Close()
	}, nil
}

// simulate restores a map, boots a plugin instance, spawns a second batch of barrels and then replaces the plugin
// with a fresh instance the way a hot reload does. It returns once the reload backfill has finished.
func simulate(
	ctx context.Context, store config.Store, settings barrelhealth.Settings, flags simulateFlags,
) (*memhost.World, error) {
	if flags.frameRate <= 0 {
		return nil, eris.Errorf("frame rate must be positive, got %d", flags.frameRate)
	}

	world := memhost.NewWorld()
	prefabs := []string{
		rules.PrefabLootBarrel1,
		rules.PrefabLootBarrel2,
		rules.PrefabRadtownLootBarrel1,
		rules.PrefabRadtownLootBarrel2,
		rules.PrefabRadtownOilBarrel,
		crateBasic,
	}
	counts := map[string]int{}
	for _, p := range prefabs {
		counts[p] = flags.containers
	}
	world.Populate(counts)

	ticker := time.NewTicker(time.Second / time.Duration(flags.frameRate))
	defer ticker.Stop()
	loop := frameloop.New(frameloop.WithTickChannel(ticker.C), frameloop.WithLogger(log.Logger))

	opts := append([]barrelhealth.Option{barrelhealth.WithLogger(log.Logger)}, settings.Options()...)
	var plugin *barrelhealth.Plugin
	world.OnLootSpawn(func(c host.Container) {
		plugin.OnLootSpawn(c)
	})

	done := make(chan struct{})
	loop.Post(func() {
		plugin = barrelhealth.New(store, loop, world, opts...)
		plugin.Init(ctx)
		plugin.OnServerInitialized(true)
		for _, p := range prefabs {
			world.Spawn(p)
		}

		plugin.Unload()
		plugin = barrelhealth.New(store, loop, world, opts...)
		plugin.Init(ctx)
		plugin.OnServerInitialized(false)

		loop.StartCoroutine("simulation-watch", host.CoroutineFunc(func() bool {
			if plugin.Backfill().Stage() == backfill.Running {
				return true
			}
			close(done)
			return false
		}))
	})

	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = eris.Wrap(ctx.Err(), "simulation did not finish")
	}
	stopLoop()
	if runErr := <-loopDone; runErr != nil && err == nil {
		err = runErr
	}
	if err != nil {
		return nil, err
	}

	stats := plugin.Backfill().Last()
	log.Info().
		Int("frames", int(loop.Frame())).
		Int("visited", stats.Visited).
		Int("updated", stats.Updated).
		Msg("Simulation complete")
	return world, nil
}

func printWorld(cmd *cobra.Command, world *memhost.World) error {
	type row struct {
		prefab    string
		count     int
		health    float64
		maxHealth float64
	}
	rows := map[string]*row{}
	for _, c := range world.Containers() {
		r, ok := rows[c.PrefabName()]
		if !ok {
			r = &row{prefab: c.PrefabName(), health: c.Health(), maxHealth: c.MaxHealth()}
			rows[c.PrefabName()] = r
		}
		r.count++
	}
	prefabs := make([]string, 0, len(rows))
	for p := range rows {
		prefabs = append(prefabs, p)
	}
	sort.Strings(prefabs)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PREFAB\tCOUNT\tHEALTH\tMAX HEALTH")
	for _, p := range prefabs {
		r := rows[p]
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\n", r.prefab, r.count, r.health, r.maxHealth)
	}
	return eris.Wrap(w.Flush(), "failed to print world")
}
