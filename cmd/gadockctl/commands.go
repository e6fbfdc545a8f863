package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	api "gadock/pkg/gadock"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			if err := client.Init(cmd.Context()); err != nil {
				return err
			}
			cfg := client.Config()
			fmt.Fprintf(cmd.OutOrStdout(), "initialized store=%s db=%s\n", cfg.Store.Kind, cfg.Store.DBPath)
			return nil
		},
	}
}

func newDockCommand() *cobra.Command {
	var (
		systemPath string
		demo       bool
		seed       uint64
		runID      string
	)
	cmd := &cobra.Command{
		Use:   "dock",
		Short: "Dock the ligand of one system",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			summary, err := client.Dock(cmd.Context(), api.DockRequest{
				SystemPath: systemPath,
				Demo:       demo,
				Seed:       seed,
				RunID:      runID,
			})
			if summary.RunID != "" {
				printSummary(cmd.OutOrStdout(), summary)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&systemPath, "system", "", "YAML system description")
	cmd.Flags().BoolVar(&demo, "demo", false, "dock the built-in demo system")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 uses the configured seed)")
	cmd.Flags().StringVar(&runID, "run-id", "", "run id (default: random UUID)")
	cmd.MarkFlagsMutuallyExclusive("system", "demo")
	return cmd
}

func newBatchCommand() *cobra.Command {
	var (
		systems []string
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Dock several systems concurrently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			reqs := make([]api.DockRequest, 0, len(systems))
			for _, path := range systems {
				reqs = append(reqs, api.DockRequest{SystemPath: path, Seed: seed})
			}
			items, err := client.DockBatch(cmd.Context(), reqs)
			if err != nil {
				return err
			}
			failed := 0
			for i, item := range items {
				if item.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: failed: %v\n", systems[i], item.Err)
					continue
				}
				printSummary(cmd.OutOrStdout(), item.DockSummary)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d systems failed", failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&systems, "system", nil, "YAML system description (repeatable)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed shared by every system")
	_ = cmd.MarkFlagRequired("system")
	return cmd
}

func newRunsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List docking runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			runs, err := client.Runs(cmd.Context(), api.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(out, "%s %s/%s status=%s best=%.4f cycles=%d evaluations=%s created=%s\n",
					run.ID, run.System, run.Ligand, run.Status, run.BestScore, run.Cycles,
					humanize.Comma(int64(run.Evaluations)), humanize.Time(run.CreatedAt))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")
	return cmd
}

type runDataFlags struct {
	runID  string
	latest bool
	limit  int
}

func (f *runDataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.runID, "run-id", "", "run id")
	cmd.Flags().BoolVar(&f.latest, "latest", false, "use the most recent run")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum rows (0 for all)")
}

func (f *runDataFlags) request() api.RunDataRequest {
	return api.RunDataRequest{RunID: f.runID, Latest: f.latest, Limit: f.limit}
}

func newPosesCommand() *cobra.Command {
	flags := &runDataFlags{}
	cmd := &cobra.Command{
		Use:   "poses",
		Short: "Show the ranked poses of a run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			poses, err := client.Poses(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			for _, pose := range poses {
				fmt.Fprintf(cmd.OutOrStdout(), "rank=%d score=%.4f atoms=%d vector=%s\n",
					pose.Rank, pose.Score, len(pose.Coords), pose.Vector)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDiagnosticsCommand() *cobra.Command {
	flags := &runDataFlags{}
	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Show per-cycle population statistics of a run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			diagnostics, err := client.Diagnostics(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			for _, d := range diagnostics {
				fmt.Fprintf(cmd.OutOrStdout(), "cycle=%d best=%.4f mean=%.4f variance=%.4f convergence=%d size=%d\n",
					d.Cycle, d.BestScore, d.MeanScore, d.Variance, d.Convergence, d.Size)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportCommand() *cobra.Command {
	flags := &runDataFlags{}
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a run's poses and statistics to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			dir, err := client.Export(cmd.Context(), flags.request(), outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", dir)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&outDir, "out", "exports", "output directory")
	return cmd
}

func printSummary(w io.Writer, s api.DockSummary) {
	fmt.Fprintf(w, "run_id=%s system=%s ligand=%s seed=%d\n", s.RunID, s.System, s.Ligand, s.Seed)
	fmt.Fprintf(w, "best score=%.4f cycles=%d converged=%t evaluations=%s elapsed=%s poses=%d\n",
		s.BestScore, s.Cycles, s.Converged, humanize.Comma(int64(s.Evaluations)),
		s.Elapsed.Round(time.Millisecond), s.Poses)
	if len(s.Breakdown) == 0 {
		return
	}
	names := make([]string, 0, len(s.Breakdown))
	for name := range s.Breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	terms := make([]string, 0, len(names))
	for _, name := range names {
		terms = append(terms, fmt.Sprintf("%s=%s", name, humanize.FtoaWithDigits(s.Breakdown[name], 4)))
	}
	fmt.Fprintf(w, "terms %s\n", strings.Join(terms, " "))
}
