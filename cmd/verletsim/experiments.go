package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/verletsim/internal/automation"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/optim"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/spf13/cobra"
)

func newTuneCmd() *cobra.Command {
	long := "Each --param is name=v1,v2,... and every combination is run.\nParameters: " + strings.Join(config.ParamNames(), ", ")
	cmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search config parameters against a metric",
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE:  tune,
	}
	addSceneFlags(cmd)
	cmd.Flags().StringArray("param", nil, "name=v1,v2,... (repeatable)")
	cmd.Flags().String("metric", "max_penetration", "metric to minimise")
	cmd.Flags().Int("ticks", config.DefaultTicks, "ticks per trial")
	return cmd
}

// parseGrid reads name=v1,v2 pairs, keeping flag order.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tune(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("param")
	if len(specs) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names, ranges, err := parseGrid(specs)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	metric, _ := cmd.Flags().GetString("metric")

	ctx, cancel := signalContext()
	defer cancel()

	best, trials, err := g.Search(ctx, cfg, metric)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
	for _, t := range trials {
		row := make([]string, len(names))
		for i, n := range names {
			row[i] = strconv.FormatFloat(t.Params[n], 'g', -1, 64)
		}
		value := fmt.Sprintf("%.6f", t.Value)
		if t.Err != nil {
			value = "error: " + t.Err.Error()
		}
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t"+value)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, best.Params[k])
	}
	fmt.Fprintf(out, "\nbest: %s (%s %.6f)\n", strings.Join(parts, " "), metric, best.Value)
	return nil
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of scene runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			store := storage.New(dataDir)
			if err := store.Init(); err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			fmt.Fprintf(out, "scenario %s: %d steps\n", sc.Name, len(sc.Steps))
			results, err := automation.RunScenario(ctx, sc, store)
			for i, r := range results {
				fmt.Fprintf(out, "step %d: %s %d ticks in %v", i+1, r.Result.Scene, r.Result.Ticks, r.Result.Elapsed)
				if r.RunID != "" {
					fmt.Fprintf(out, ", saved %s", r.RunID)
				}
				fmt.Fprintln(out)
			}
			return err
		},
	}
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "run perturbed copies of a scene and count stable ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			trials, _ := cmd.Flags().GetInt("trials")
			eps, _ := cmd.Flags().GetFloat64("perturb")

			ctx, cancel := signalContext()
			defer cancel()

			results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Base:         cfg,
				Perturbation: eps,
				NumTrials:    trials,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TRIAL\tKE\tBROKEN\tSTABLE")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%.4f\t%d\t%v\n", r.TrialID, r.Energy, r.Broken, r.Stable)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			stable, unstable := automation.MonteCarloStats(results)
			fmt.Fprintf(out, "\nstable: %d, unstable: %d\n", stable, unstable)
			return nil
		},
	}
	addSceneFlags(cmd)
	cmd.Flags().Int("trials", 10, "number of trials")
	cmd.Flags().Float64("perturb", 0.1, "maximum position nudge")
	cmd.Flags().Int("ticks", config.DefaultTicks, "ticks per trial")
	cmd.Flags().Int64("seed", 0, "random seed")
	return cmd
}
