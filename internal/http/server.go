package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tunedeck/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

type Metrics struct {
	AddsTotal          *prometheus.CounterVec
	DuplicatesTotal    prometheus.Counter
	DeletesTotal       prometheus.Counter
	PlaysTotal         prometheus.Counter
	SearchesTotal      *prometheus.CounterVec
	PersistErrorsTotal *prometheus.CounterVec
	RemoteErrorsTotal  *prometheus.CounterVec
	LibrarySize        prometheus.Gauge
	HistorySize        prometheus.Gauge
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	metrics := &Metrics{
		AddsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedeck_adds_total",
				Help: "Total number of tracks added to library collections",
			},
			[]string{"collection"},
		),
		DuplicatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tunedeck_duplicates_total",
				Help: "Total number of duplicate adds rejected",
			},
		),
		DeletesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tunedeck_deletes_total",
				Help: "Total number of delete-everywhere operations",
			},
		),
		PlaysTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tunedeck_plays_total",
				Help: "Total number of tracks that started playing",
			},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedeck_searches_total",
				Help: "Total number of remote search requests",
			},
			[]string{"kind"},
		),
		PersistErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedeck_persist_errors_total",
				Help: "Total number of swallowed persistence failures",
			},
			[]string{"key"},
		),
		RemoteErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedeck_remote_errors_total",
				Help: "Total number of remote service failures",
			},
			[]string{"op"},
		),
		LibrarySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tunedeck_library_size",
				Help: "Current number of entries across all library collections",
			},
		),
		HistorySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tunedeck_history_size",
				Help: "Current combined length of the history logs",
			},
		),
	}

	prometheus.MustRegister(
		metrics.AddsTotal,
		metrics.DuplicatesTotal,
		metrics.DeletesTotal,
		metrics.PlaysTotal,
		metrics.SearchesTotal,
		metrics.PersistErrorsTotal,
		metrics.RemoteErrorsTotal,
		metrics.LibrarySize,
		metrics.HistorySize,
	)

	mux := setupRoutes()

	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, mux),
		metrics: metrics,
	}
}

func setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"tunedeck"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"tunedeck"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func createHTTPServer(config *core.ServerConfig, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) RecordAdd(collection string) {
	s.metrics.AddsTotal.WithLabelValues(collection).Inc()
}

func (s *Server) RecordDuplicate() {
	s.metrics.DuplicatesTotal.Inc()
}

func (s *Server) RecordDelete() {
	s.metrics.DeletesTotal.Inc()
}

func (s *Server) RecordPlay() {
	s.metrics.PlaysTotal.Inc()
}

func (s *Server) RecordSearch(kind string) {
	s.metrics.SearchesTotal.WithLabelValues(kind).Inc()
}

func (s *Server) RecordPersistError(key string) {
	s.metrics.PersistErrorsTotal.WithLabelValues(key).Inc()
}

func (s *Server) RecordRemoteError(op string) {
	s.metrics.RemoteErrorsTotal.WithLabelValues(op).Inc()
}

func (s *Server) SetLibrarySize(size int) {
	s.metrics.LibrarySize.Set(float64(size))
}

func (s *Server) SetHistorySize(size int) {
	s.metrics.HistorySize.Set(float64(size))
}
