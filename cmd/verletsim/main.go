package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/gui"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verletsim",
		Short: "2d verlet particle lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.RunInteractive()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verletsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and save the recording",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().Int("ticks", config.DefaultTicks, "ticks to simulate")
	runCmd.Flags().Int("record-every", config.DefaultRecordEvery, "record a frame every n ticks")
	runCmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64("gravity", config.DefaultGravity, "downward acceleration")
	runCmd.Flags().Float64("collision-scale", config.DefaultScale, "share of overlap removed per contact")
	runCmd.Flags().Int64("seed", 0, "seed recorded with the run")
	runCmd.Flags().Bool("no-save", false, "do not write the run to the data directory")
	runCmd.Flags().Bool("all-presets", false, "run every preset of the scene concurrently")
	runCmd.Flags().Int("progress", 0, "print progress every n ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a particle coordinate over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Int("particle", 0, "particle index")
	plotCmd.Flags().String("axis", "y", "coordinate to plot (x or y)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json, svg or a path svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().String("format", "json", "json, meta, svg or path")
	exportCmd.Flags().Int("frame", -1, "frame for svg, negative counts from the end")
	exportCmd.Flags().Int("particle", 0, "particle for path")
	exportCmd.Flags().Int("size", 600, "svg size in pixels")
	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the grid broad phase against naive collision",
		Args:  cobra.NoArgs,
		RunE:  benchBroadphase,
	}
	benchCmd.Flags().Int("particles", 1000, "particles to fill up to")
	benchCmd.Flags().Int("every", 100, "report every n particles")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and trajectory analysis of one particle",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Int("particle", 0, "particle index")
	analyzeCmd.Flags().String("axis", "x", "coordinate to analyse (x or y)")
	analyzeCmd.Flags().Float64("perturb", 0, "also estimate divergence with this nudge")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return viz.RunLive(func() (scene.Scene, error) { return scene.New(cfg.Scene, cfg) })
		},
	}
	addSceneFlags(liveCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal scene menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && configFile == "" {
				return gui.RunInteractive()
			}
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	addSceneFlags(guiCmd)

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				return fmt.Errorf("%w: %s", config.ErrUnknownScene, args[0])
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file to edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	addSceneFlags(initCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, benchCmd, analyzeCmd, liveCmd, tuiCmd, guiCmd, scenesCmd, presetsCmd, initCmd)
	rootCmd.AddCommand(newTuneCmd(), newScenarioCmd(), newMonteCarloCmd())
	return rootCmd
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().String("scene", "", "scene name (overrides the argument)")
}

// resolveConfig layers defaults, preset, config file and then explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if f := cmd.Flags().Lookup("scene"); f != nil && f.Changed {
		name = f.Value.String()
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if name != "" {
		cfg.Scene = name
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		if configFile == "" {
			cfg = p
		} else {
			config.Presets[cfg.Scene][preset](cfg)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Ticks, _ = flags.GetInt("ticks")
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery, _ = flags.GetInt("record-every")
	}
	if flags.Changed("dt") {
		cfg.Dt, _ = flags.GetFloat64("dt")
	}
	if flags.Changed("gravity") {
		cfg.Gravity, _ = flags.GetFloat64("gravity")
	}
	if flags.Changed("collision-scale") {
		cfg.CollisionScale, _ = flags.GetFloat64("collision-scale")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// signalContext cancels on interrupt so long runs keep their partial result.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
