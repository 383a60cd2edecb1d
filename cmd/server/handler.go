package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cyclegraph/agui"
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/runstore"
)

// RunHandler runs registered graphs and streams AG-UI events over SSE.
type RunHandler struct {
	registry *graph.Registry
	config   *Config
	observer graph.Observer
}

// NewRunHandler creates a handler for the graphs in r. observer may be nil.
func NewRunHandler(r *graph.Registry, cfg *Config, observer graph.Observer) *RunHandler {
	return &RunHandler{registry: r, config: cfg, observer: observer}
}

// ServeHTTP handles POST requests to run a graph and stream events via SSE.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	prepared, err := input.Prepare(h.config.DefaultGraph)
	if err != nil {
		slog.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, ok := h.registry.Get(prepared.Graph)
	if !ok {
		slog.Warn("unknown graph", "graph", prepared.Graph)
		http.Error(w, fmt.Sprintf("%v: %s", graph.ErrGraphNotFound, prepared.Graph), http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	log := slog.With(
		"run_id", mapper.RunID(),
		"thread_id", mapper.ThreadID(),
		"graph", g.Name(),
	)
	log.Info("request started", "max_cycles", prepared.Config.MaxCycles, "auto_approve", prepared.Config.AutoApprove)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	opts := []graph.Option{
		graph.WithRunID(mapper.RunID()),
		graph.WithMaxSteps(h.config.MaxSteps),
		graph.WithTimeout(h.config.Timeout),
		graph.WithLogger(log),
	}
	if h.observer != nil {
		opts = append(opts, graph.WithObserver(h.observer))
	}

	stream := mapper.MapStream(g.RunStream(r.Context(), prepared.Config, opts...))

	var eventCount int
	for ev := range stream {
		eventCount++
		log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", eventCount)

		if err := writeSSE(w, flusher, ev); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", ev.Type())
			// The run stops on the cancelled request context; drain so it can finish.
			go func() {
				for range stream {
				}
			}()
			return
		}
	}

	log.Info("request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

// graphInfo describes a registered graph.
type graphInfo struct {
	Name    string   `json:"name"`
	Entry   string   `json:"entry"`
	Stages  []string `json:"stages"`
	Mermaid string   `json:"mermaid"`
}

// graphsHandler lists registered graphs.
func graphsHandler(registry *graph.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		infos := make([]graphInfo, 0, registry.Len())
		for _, name := range registry.Names() {
			g, ok := registry.Get(name)
			if !ok {
				continue
			}
			infos = append(infos, graphInfo{
				Name:    g.Name(),
				Entry:   g.Entry(),
				Stages:  g.Stages(),
				Mermaid: g.Mermaid(),
			})
		}

		writeJSON(w, infos)
	}
}

// runsHandler lists finished runs, newest first.
func runsHandler(runs *runstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		recs, err := runs.List(r.Context(), limit)
		if err != nil {
			slog.Error("failed to list runs", "error", err)
			http.Error(w, "Failed to list runs", http.StatusInternalServerError)
			return
		}
		writeJSON(w, recs)
	}
}

// runByIDHandler returns one finished run.
func runByIDHandler(runs *runstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rec, err := runs.Get(r.Context(), r.PathValue("id"))
		if errors.Is(err, runstore.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("failed to load run", "run_id", r.PathValue("id"), "error", err)
			http.Error(w, "Failed to load run", http.StatusInternalServerError)
			return
		}
		writeJSON(w, rec)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
