package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lintang-b-s/roaddist/pkg/engine/sssp"
	"github.com/lintang-b-s/roaddist/pkg/server/rest"
	"github.com/lintang-b-s/roaddist/pkg/server/rest/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "http api for nearest / farthest / export queries over one road network",
		Example: `  roaddist serve --input edges.csv --listen-addr :5000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
	cmd.Flags().String("listen-addr", ":5000", "server listen address")
	cmd.Flags().Int("cache-size", service.DefaultCacheSize, "number of distance tables kept in memory")
	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	cfg, log, err := a.setup(cmd)
	if err != nil {
		return err
	}
	g, err := a.loadGraph(cfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)
	svc := service.NewSsspService(sssp.NewEngine(g, sssp.WithLogger(log)),
		service.WithCacheSize(cfg.CacheSize),
		service.WithObserver(m),
		service.WithLogger(log),
	)
	a.recordMemProfile("service_init")

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           rest.NewRouter(svc, reg, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Int("vertices", g.NumVertices()).Int("edges", g.NumEdges()).
			Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	log.Info().Msg("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
