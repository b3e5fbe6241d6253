// Command geocoder-server exposes the offline geocoder over HTTP.
//
//	geocoder-server -config configs/server.yaml
//
// Endpoints: GET /api/v1/geocode?q=..., GET /healthz, GET /metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/placematch/geocoder"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Logging)

	slog.Info("loading hierarchy", "path", cfg.Geocoder.HierarchyPath, "workers", cfg.Geocoder.LoadWorkers)
	start := time.Now()
	g, err := geocoder.NewFromFile(cfg.Geocoder.HierarchyPath, geocoder.WithWorkers(cfg.Geocoder.LoadWorkers))
	if err != nil {
		slog.Error("failed to load hierarchy", "error", err)
		os.Exit(1)
	}
	slog.Info("hierarchy ready",
		"entries", len(g.Hierarchy().Entries()),
		"duration", time.Since(start),
	)

	registry := prometheus.NewRegistry()
	h := &geocodeHandler{
		geocoder: g,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		metrics:  newServerMetrics(registry),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/geocode", h.Geocode)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout.std(),
		WriteTimeout: cfg.Server.WriteTimeout.std(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		slog.Error("server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.std())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

type geocodeHandler struct {
	geocoder *geocoder.Geocoder
	limiter  *rate.Limiter
	metrics  *serverMetrics
}

type geocodeResponse struct {
	Query   string            `json:"query"`
	Results []geocoder.Result `json:"results"`
}

// Geocode handles GET /api/v1/geocode?q=<query>.
func (h *geocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		h.metrics.queriesTotal.WithLabelValues("rate_limited").Inc()
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.metrics.queriesTotal.WithLabelValues("bad_request").Inc()
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	start := time.Now()
	results := h.geocoder.ProcessQuery(query)
	h.metrics.queryDuration.Observe(time.Since(start).Seconds())
	h.metrics.resultCount.Observe(float64(len(results)))
	if len(results) == 0 {
		h.metrics.queriesTotal.WithLabelValues("empty").Inc()
	} else {
		h.metrics.queriesTotal.WithLabelValues("ok").Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(geocodeResponse{Query: query, Results: results}); err != nil {
		slog.Error("writing response", "error", err)
	}
}
