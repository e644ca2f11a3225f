package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	pollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bigbrother", Subsystem: "agent",
		Name: "poll_cycles_total",
		Help: "Poll cycles started.",
	})
	pollFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bigbrother", Subsystem: "agent",
		Name: "poll_failures_total",
		Help: "Feed fetches that failed at the transport level.",
	})
	eventsStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bigbrother", Subsystem: "agent",
		Name: "events_stored_total",
		Help: "Events written to both stores.",
	})
	eventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bigbrother", Subsystem: "agent",
		Name: "events_skipped_total",
		Help: "Records dropped during normalization.",
	})
	writeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bigbrother", Subsystem: "agent",
		Name: "write_failures_total",
		Help: "Per-store event write failures.",
	}, []string{"store"})
)

// serveMetrics exposes prometheus metrics and a liveness probe on a side
// listener, off the ingestion path.
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics listener stopped")
		}
	}()
	return srv
}
