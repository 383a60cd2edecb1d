// Package main provides an HTTP server that runs cyclegraph graphs and
// streams their progress to AG-UI compatible frontends over Server-Sent
// Events (SSE).
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	CYCLEGRAPH_PORT                - Server port (default: 8000)
//	CYCLEGRAPH_LOG_LEVEL           - debug, info, warn, error (default: info)
//	CYCLEGRAPH_DEFAULT_GRAPH       - Graph used when a request names none (default: automation)
//	CYCLEGRAPH_MAX_STEPS           - Stage invocation ceiling per run (default: 10000)
//	CYCLEGRAPH_TIMEOUT             - Run timeout (default: 2m)
//	CYCLEGRAPH_SOURCE_FAILURE_RATE - Simulated source failure probability (default: 0)
//	CYCLEGRAPH_RUN_HISTORY         - Finished runs kept for /api/runs, 0 keeps all (default: 100)
//	CYCLEGRAPH_REDIS_ADDR          - Redis address for run history (default: in memory)
//	CYCLEGRAPH_REDIS_DB            - Redis database number (default: 0)
//
// Endpoints:
//
//	POST /api/run     - run a graph, streaming AG-UI events
//	GET  /api/graphs  - list graphs with Mermaid diagrams
//	GET  /api/runs    - list finished runs, newest first (?limit=N)
//	GET  /api/runs/ID - fetch one finished run
//	GET  /metrics     - Prometheus metrics
//	GET  /health      - health check
//
// Usage:
//
//	go run ./cmd/server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/cyclegraph/automation"
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/metrics"
	"github.com/spetersoncode/cyclegraph/runstore"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	g, err := automation.New(automation.WithSourceFailureRate(cfg.SourceFailureRate))
	if err != nil {
		slog.Error("failed to build graph", "error", err)
		os.Exit(1)
	}
	registry := graph.NewRegistry(g)
	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	adapter, closeAdapter, err := historyAdapter(cfg)
	if err != nil {
		slog.Error("failed to open run history", "error", err)
		os.Exit(1)
	}
	defer closeAdapter()
	runs := runstore.New(adapter, runstore.WithLimit(cfg.RunHistory), runstore.WithLogger(slog.Default()))

	mux := newMux(registry, cfg, graph.Observers(recorder, runs), runs)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting",
		"addr", server.Addr,
		"graphs", registry.Names(),
		"default_graph", cfg.DefaultGraph,
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		closeAdapter()
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newMux wires the API routes. /metrics is added by main so tests can use
// a private registry.
func newMux(registry *graph.Registry, cfg *Config, observer graph.Observer, runs *runstore.Store) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/run", corsMiddleware(NewRunHandler(registry, cfg, observer)))
	mux.Handle("/api/graphs", corsMiddleware(graphsHandler(registry)))
	mux.Handle("/api/runs", corsMiddleware(runsHandler(runs)))
	mux.Handle("/api/runs/{id}", corsMiddleware(runByIDHandler(runs)))
	mux.HandleFunc("/health", healthHandler)
	return mux
}

// historyAdapter picks Redis when an address is configured and memory
// otherwise. The returned func releases the adapter.
func historyAdapter(cfg *Config) (runstore.Adapter, func(), error) {
	if cfg.RedisAddr == "" {
		return runstore.NewMemoryAdapter(), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	adapter, err := runstore.NewRedisAdapter(ctx, runstore.RedisConfig{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Info("run history in redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return adapter, func() { _ = adapter.Close() }, nil
}
