package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modoterra/pingsieve/pkg/sieve"
)

// Serve exposes /metrics on addr until ctx is cancelled. It registers
// only the pingsieve collector; no Go runtime metrics.
func Serve(ctx context.Context, addr string, state *sieve.State, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(state)); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
