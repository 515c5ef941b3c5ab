package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"har-capture/internal/infrastructure/config"
	obs "har-capture/internal/infrastructure/observability"
	"har-capture/internal/usecase"
)

type Deps struct {
	Cfg     config.Config
	Logger  *zerolog.Logger
	Metrics *obs.Metrics
	Svc     *usecase.CaptureService
	Monitor *MonitorHub
}

// NewRouter wires the capture service API: capture execution, recent-capture
// retrieval, the live event stream and the usual operational endpoints.
func NewRouter(d *Deps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/live", d.Monitor.HandleWS)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"version": obs.Version,
			"commit":  obs.Commit,
			"date":    obs.Date,
		})
	}).Methods(http.MethodGet)
	api.HandleFunc("/capture", d.handleCapture).Methods(http.MethodPost)
	api.HandleFunc("/capture", d.handleCaptureQuick).Methods(http.MethodGet)
	api.HandleFunc("/captures", d.handleListCaptures).Methods(http.MethodGet)
	api.HandleFunc("/captures", d.handleClearCaptures).Methods(http.MethodDelete)
	api.HandleFunc("/captures/{id}", d.handleGetCapture).Methods(http.MethodGet)
	api.HandleFunc("/captures/{id}", d.handleDeleteCapture).Methods(http.MethodDelete)

	return withCORS(d.Cfg, r)
}

func withCORS(cfg config.Config, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
