package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/roaddist/pkg/config"
	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/graphbuilder"
	"github.com/lintang-b-s/roaddist/pkg/loader"
	"github.com/lintang-b-s/roaddist/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v          *viper.Viper
	cfgFile    string
	cpuprofile string
	memprofile string
	cpuFile    *os.File
	log        zerolog.Logger
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	a := &app{v: config.New(), log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "roaddist",
		Short: "single source shortest path distances over a road network edge list",
		Long: `roaddist loads a directed, weighted road network from a csv edge list
(source id, destination id, length) and computes the shortest path distance
from a source vertex to every reachable vertex.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.startProfile,
		PersistentPostRun: a.stopProfile,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "yaml config file")
	pf.String("input", "", "edge list csv, .zst compressed when the name ends with .zst")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error, disabled)")
	pf.Bool("pretty", false, "human readable console logs")
	pf.Int64("base-offset", 1, "smallest vertex id of the input numbering")
	pf.String("header", "auto", "header row: auto, present or absent")
	pf.StringSlice("columns", nil, "source, destination and length column names (needs a header row)")
	pf.Int("max-vertices", 50_000_000, "refuse inputs with more vertices than this")
	pf.StringVar(&a.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	pf.StringVar(&a.memprofile, "memprofile", "", "write memory profile to this file")

	rootCmd.AddCommand(newRunCmd(a), newBatchCmd(a), newServeCmd(a), newStatsCmd(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	log, err := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.Pretty)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	a.log = log
	return cfg, log, nil
}

func (a *app) loadGraph(cfg config.Config, log zerolog.Logger) (*datastructure.Graph, error) {
	mode, err := loader.ParseHeaderMode(cfg.Header)
	if err != nil {
		return nil, err
	}
	opts := []loader.Option{loader.WithHeader(mode)}
	if len(cfg.Columns) == 3 {
		opts = append(opts, loader.WithColumns(cfg.Columns[0], cfg.Columns[1], cfg.Columns[2]))
	}

	l, err := loader.Open(cfg.Input, opts...)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	log.Info().Str("input", cfg.Input).Msg("loading road network...")
	g, err := graphbuilder.NewBuilder(
		graphbuilder.WithBaseOffset(cfg.BaseOffset),
		graphbuilder.WithMaxVertices(cfg.MaxVertices),
		graphbuilder.WithLogger(log),
	).Build(l)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Input, err)
	}
	log.Info().Int("rows", l.Row()).Msg("road network loaded")

	a.recordMemProfile("graph_build")
	return g, nil
}
