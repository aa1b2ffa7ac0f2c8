package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/verletsim/internal/analysis"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/export"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/spf13/cobra"
)

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Ticks: cfg.Ticks, RecordEvery: cfg.RecordEvery}
}

type progress struct {
	out   io.Writer
	every int
}

func (p progress) OnTick(s scene.Scene) {
	if s.Tick()%p.every == 0 {
		fmt.Fprintf(p.out, "  tick %d: %d particles\n", s.Tick(), s.World().Len())
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if all, _ := cmd.Flags().GetBool("all-presets"); all {
		return runPresets(ctx, cmd, cfg)
	}

	s, err := scene.New(cfg.Scene, cfg)
	if err != nil {
		return err
	}
	runner := sim.New(s)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}
	if every, _ := cmd.Flags().GetInt("progress"); every > 0 {
		runner.AddObserver(progress{out: out, every: every})
	}

	fmt.Fprintf(out, "running %s for %d ticks...\n", cfg.Scene, cfg.Ticks)
	result, runErr := runner.Run(ctx, simConfig(cfg))
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(out, "stopped early: %v\n", runErr)
	}

	fmt.Fprintf(out, "completed %d ticks in %v\n", result.Ticks, result.Elapsed)
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintf(out, "frames: %d\n", len(result.Frames))
	if result.Degenerate > 0 {
		fmt.Fprintf(out, "degenerate contacts: %d\n", result.Degenerate)
	}

	fmt.Fprintln(out, "\nmetrics:")
	printMetrics(out, result.Metrics)
	return runErr
}

func printMetrics(out io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, m[name])
	}
}

func runPresets(ctx context.Context, cmd *cobra.Command, base *config.Config) error {
	out := cmd.OutOrStdout()
	names := config.ListPresets(base.Scene)
	configs := make([]*config.Config, len(names))
	for i, name := range names {
		configs[i] = config.GetPreset(base.Scene, name)
		configs[i].Ticks, configs[i].RecordEvery = base.Ticks, base.RecordEvery
	}

	fmt.Fprintf(out, "running %d %s presets...\n", len(configs), base.Scene)
	results, err := sim.NewEnsemble(configs, metrics.Default).Run(ctx, simConfig(base))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTICKS\tTIME\tKE\tPENETRATION\tBROKEN\tPARTICLES")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%v\t%.4f\t%.4f\t%.0f\t%.0f\n",
			names[i],
			r.Ticks,
			r.Elapsed.Round(time.Millisecond),
			r.Metrics["kinetic_energy"],
			r.Metrics["max_penetration"],
			r.Metrics["broken_links"],
			r.Metrics["particles"],
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tDT\tFRAMES\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Dt,
			run.Frames,
			run.Particles,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func axisFlag(cmd *cobra.Command) (analysis.Axis, error) {
	s, _ := cmd.Flags().GetString("axis")
	axis, ok := analysis.ParseAxis(s)
	if !ok {
		return 0, fmt.Errorf("unknown axis %q, want x or y", s)
	}
	return axis, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	idx, _ := cmd.Flags().GetInt("particle")
	axis, err := axisFlag(cmd)
	if err != nil {
		return err
	}

	data := analysis.Trace(frames, idx, axis)
	if len(data) == 0 {
		return fmt.Errorf("particle %d never appears in %s", idx, meta.ID)
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "samples: %d\n\n", len(data))
	fmt.Fprintln(out, asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle %d %s vs tick", idx, axis)),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "meta" {
		return storage.ExportJSON(out, meta, nil)
	}

	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}
	size, _ := cmd.Flags().GetInt("size")

	switch format {
	case "json":
		return storage.ExportJSON(out, meta, frames)
	case "svg":
		if len(frames) == 0 {
			return fmt.Errorf("run %s has no frames", meta.ID)
		}
		i, _ := cmd.Flags().GetInt("frame")
		if i < 0 {
			i += len(frames)
		}
		if i < 0 || i >= len(frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", i, len(frames))
		}
		_, err = io.WriteString(out, export.FrameToSVG(frames[i], runExtent(meta, frames), size))
		return err
	case "path":
		idx, _ := cmd.Flags().GetInt("particle")
		_, err = io.WriteString(out, export.PathToSVG(analysis.Path(frames, idx), size, size, "#00ff88"))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// runExtent is the scene's drawing extent, falling back to the widest
// recorded coordinate for runs saved without their config.
func runExtent(meta *storage.RunMetadata, frames []sim.Frame) float64 {
	if meta.Config != nil {
		if s, err := scene.New(meta.Scene, meta.Config); err == nil {
			return s.Extent()
		}
	}
	extent := 1.0
	for _, f := range frames {
		for _, p := range f.Particles {
			extent = max(extent, abs(p.Position.X)+p.Radius, abs(p.Position.Y)+p.Radius)
		}
	}
	return extent
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// benchBroadphase fills two stress scenes, one per broad phase, and reports
// the step time each time another batch of particles has been spawned.
func benchBroadphase(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	n, _ := cmd.Flags().GetInt("particles")
	every, _ := cmd.Flags().GetInt("every")
	if n <= 0 || every <= 0 {
		return fmt.Errorf("particles and every must be positive")
	}

	timings := make(map[string][]float64)
	phases := []string{"grid", "naive"}
	for _, phase := range phases {
		cfg := config.GetPreset("stress", phase)
		cfg.Stress.Capacity = n
		s, err := scene.New("stress", cfg)
		if err != nil {
			return err
		}
		st := s.(*scene.Stress)

		var window time.Duration
		ticks := 0
		for next := every; next <= n; {
			start := time.Now()
			if err := st.Step(); err != nil {
				return err
			}
			window += time.Since(start)
			ticks++
			if st.World().Len() >= next {
				timings[phase] = append(timings[phase], float64(window.Microseconds())/1000/float64(ticks))
				window, ticks = 0, 0
				next += every
			}
		}
		if g := st.Grid(); g != nil && g.TotalDropped() > 0 {
			fmt.Fprintf(out, "warning: grid dropped %d cell entries\n", g.TotalDropped())
		}
	}

	fmt.Fprintf(out, "benchmarking broad phase up to %d particles\n\n", n)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tGRID MS/TICK\tNAIVE MS/TICK\tSPEEDUP")
	for i := range timings["grid"] {
		g, nv := timings["grid"][i], timings["naive"][i]
		speedup := 0.0
		if g > 0 {
			speedup = nv / g
		}
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.1fx\n", (i+1)*every, g, nv, speedup)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	idx, _ := cmd.Flags().GetInt("particle")
	axis, err := axisFlag(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s, particle %d, axis %s\n\n", meta.Scene, idx, axis)

	samples := analysis.Trace(frames, idx, axis)
	sampleDt := meta.Dt * float64(max(meta.RecordEvery, 1))
	freq, err := analysis.DominantFrequency(samples, sampleDt)
	switch {
	case errors.Is(err, analysis.ErrTooFewSamples):
		fmt.Fprintf(out, "too few samples (%d) for a spectrum\n", len(samples))
	case err != nil:
		return err
	default:
		ps := analysis.PowerSpectrum(samples)
		fmt.Fprintln(out, asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
		fmt.Fprintf(out, "\ndominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Fprintf(out, "period: %.3f s\n", 1/freq)
		}
	}

	if path := analysis.Path(frames, idx); len(path) > 0 {
		fmt.Fprintln(out, "\ntrajectory:")
		fmt.Fprint(out, analysis.PathToASCII(path, 60, 20))
	}

	if eps, _ := cmd.Flags().GetFloat64("perturb"); eps != 0 {
		if meta.Config == nil {
			return fmt.Errorf("run %s was saved without its config", meta.ID)
		}
		cfg := meta.Config
		lambda, err := analysis.Divergence(func() (scene.Scene, error) { return scene.New(cfg.Scene, cfg) }, idx, eps, meta.Ticks)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\ndivergence exponent: %.4f /s\n", lambda)
	}
	return nil
}
