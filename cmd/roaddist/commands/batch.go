package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/engine/sssp"
	"github.com/lintang-b-s/roaddist/pkg/export"
	"github.com/lintang-b-s/roaddist/pkg/resultview"
	"github.com/lintang-b-s/roaddist/pkg/util"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "batch",
		Short:   "distances from many sources concurrently, one export file per source",
		Example: `  roaddist batch --input edges.csv --sources 1,5,9 --output-dir out/ --workers 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.batch(cmd)
		},
	}
	cmd.Flags().String("sources", "", "comma separated source vertex ids (input numbering)")
	cmd.Flags().String("output-dir", ".", "directory for the distances_<source>.csv files")
	cmd.Flags().Int("workers", 0, "concurrent runs, 0 means GOMAXPROCS")
	cmd.Flags().Bool("compress", false, "zstd compress the export files")
	return cmd
}

func exportName(source int64, compress bool) string {
	name := fmt.Sprintf("distances_%d.csv", source)
	if compress {
		name += ".zst"
	}
	return name
}

func (a *app) batch(cmd *cobra.Command) error {
	cfg, log, err := a.setup(cmd)
	if err != nil {
		return err
	}
	ids, err := util.ParseIDList(cfg.Sources)
	if err != nil {
		return fmt.Errorf("--sources: %w", err)
	}
	ids = util.Dedup(ids)

	g, err := a.loadGraph(cfg, log)
	if err != nil {
		return err
	}

	sources := make([]datastructure.VertexID, len(ids))
	for i, id := range ids {
		if sources[i], err = g.Normalize(id); err != nil {
			return err
		}
	}

	tables, err := sssp.NewEngine(g, sssp.WithLogger(log)).RunMany(cmd.Context(), sources, cfg.Workers)
	if err != nil {
		return err
	}
	log.Info().Int("sources", len(sources)).Msg("shortest path distances done")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i, table := range tables {
		path := filepath.Join(cfg.OutputDir, exportName(ids[i], cfg.Compress))
		view := resultview.New(table, g.BaseOffset)
		if err := export.WriteFile(path, view.Records()); err != nil {
			return err
		}
		log.Info().Int64("source", ids[i]).Int("reachable", view.ReachableCount()).Str("output", path).Msg("export written")
	}
	return nil
}
