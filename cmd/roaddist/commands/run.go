package commands

import (
	"github.com/lintang-b-s/roaddist/pkg/engine/sssp"
	"github.com/lintang-b-s/roaddist/pkg/export"
	"github.com/lintang-b-s/roaddist/pkg/resultview"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "distances from one source, logs the k nearest & farthest vertices and writes the csv export",
		Example: `  roaddist run --input edges.csv --source 1 --k 10
  roaddist run --input edges.csv.zst --source 42 --output dist.csv.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}
	cmd.Flags().Int64("source", 1, "source vertex id (input numbering)")
	cmd.Flags().Int("k", 10, "number of nearest / farthest vertices to log")
	cmd.Flags().String("output", "", "export file, stdout when empty, zstd compressed when the name ends with .zst")
	return cmd
}

func (a *app) run(cmd *cobra.Command) error {
	cfg, log, err := a.setup(cmd)
	if err != nil {
		return err
	}
	g, err := a.loadGraph(cfg, log)
	if err != nil {
		return err
	}

	table, err := sssp.NewEngine(g, sssp.WithLogger(log)).RunRaw(cmd.Context(), cfg.Source)
	if err != nil {
		return err
	}
	view := resultview.New(table, g.BaseOffset)
	log.Info().Int64("source", cfg.Source).Int("reachable", view.ReachableCount()).
		Dur("took", table.Stats().Duration).Msg("shortest path distances done")

	nearest, err := view.Nearest(cfg.K)
	if err != nil {
		return err
	}
	logRanked(log, "nearest", view.ToExternal(nearest))

	farthest, err := view.Farthest(cfg.K)
	if err != nil {
		return err
	}
	logRanked(log, "farthest", view.ToExternal(farthest))

	if cfg.Output == "" {
		return export.WriteCSV(cmd.OutOrStdout(), view.Records())
	}
	if err := export.WriteFile(cfg.Output, view.Records()); err != nil {
		return err
	}
	log.Info().Str("output", cfg.Output).Msg("export written")
	return nil
}

func logRanked(log zerolog.Logger, kind string, records []resultview.Record) {
	for i, r := range records {
		log.Info().Int("rank", i+1).Int64("vertex", r.Vertex).Float64("distance", r.Distance).Msg(kind)
	}
}
