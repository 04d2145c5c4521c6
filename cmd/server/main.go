package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rivaas.dev/logging"

	"github.com/atharv3903/borderroute/internal/algo"
	"github.com/atharv3903/borderroute/internal/api"
	"github.com/atharv3903/borderroute/internal/cache"
	"github.com/atharv3903/borderroute/internal/config"
	"github.com/atharv3903/borderroute/internal/dataset"
	"github.com/atharv3903/borderroute/internal/db"
	"github.com/atharv3903/borderroute/internal/graph"
	"github.com/atharv3903/borderroute/internal/routing"
)

var version = "dev"

func main() {
	cfg, err := config.FromFlagsServer()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.LogError(err, "borderroute stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ServerConfig, logger *logging.Logger) error {
	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	metric, err := algo.ParseMetric(cfg.Metric)
	if err != nil {
		return err
	}

	graphs := cache.NewGraphCache(src, graph.WithSymmetricWeights(cfg.SymmetricWeights))
	svc := routing.New(graphs, cache.NewRouteCache(), algo.Options{Metric: metric, Heuristic: cfg.Heuristic}, logger.Logger())

	// a missing or unreadable dataset is fatal at startup
	start := time.Now()
	g, err := svc.Graph(ctx)
	if err != nil {
		return err
	}
	logger.LogDuration("border graph built", start,
		"countries", g.Len(),
		"borders", g.EdgeCount(),
		"dropped_borders", g.DroppedBorders(),
		"fallback_edges", g.FallbackEdges(),
	)

	srv := api.New(svc, logger, cfg.RequestTimeout)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("BORDERROUTE listening", "addr", cfg.Addr, "metric", metric, "heuristic", cfg.Heuristic)
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func openSource(ctx context.Context, cfg config.ServerConfig) (dataset.Source, func(), error) {
	switch {
	case cfg.MySQLDSN != "":
		conn, err := db.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return db.Store{DB: conn}, func() { conn.Close() }, nil
	case cfg.DataFile != "":
		return dataset.File{Path: cfg.DataFile}, func() {}, nil
	default:
		return dataset.Embedded(), func() {}, nil
	}
}

func newLogger(cfg config.ServerConfig) (*logging.Logger, error) {
	opts := []logging.Option{
		logging.WithServiceName("borderroute"),
		logging.WithServiceVersion(version),
		logging.WithLevel(parseLevel(cfg.LogLevel)),
	}
	switch cfg.LogFormat {
	case "console":
		opts = append(opts, logging.WithConsoleHandler())
	case "text":
		opts = append(opts, logging.WithTextHandler())
	default:
		opts = append(opts, logging.WithJSONHandler())
	}
	return logging.New(opts...)
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	}
	return logging.LevelInfo
}
