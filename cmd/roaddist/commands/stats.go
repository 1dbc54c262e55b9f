package commands

import (
	"fmt"

	"github.com/lintang-b-s/roaddist/pkg/engine/scc"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "vertex / edge counts and strongly connected components of the road network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup(cmd)
			if err != nil {
				return err
			}
			g, err := a.loadGraph(cfg, log)
			if err != nil {
				return err
			}

			c := scc.Kosaraju(g)
			_, largest := c.Largest()
			log.Info().Int("components", c.Count()).Int32("largest_component", largest).
				Msg("strongly connected components done")

			fmt.Fprintf(cmd.OutOrStdout(), "vertices\t%d\nedges\t%d\ncomponents\t%d\nlargest_component\t%d\n",
				g.NumVertices(), g.NumEdges(), c.Count(), largest)
			return nil
		},
	}
}
