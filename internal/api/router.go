package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds router dependencies
type RouterConfig struct {
	Handler *Handler
	// Metrics serves /metrics when set
	Metrics http.Handler
	Logger  *logrus.Logger
}

// NewRouter wires routes and middleware.
//
//	/health                    liveness
//	/metrics                   Prometheus
//	/api/v1/events             list, record, clear
//	/api/v1/events/{key}       lookup
//	/api/v1/ingest             asynchronous record
//	/api/v1/groups/{group}     timing report
//	/api/v1/difference         time delta between two keys
//	/api/v1/level              console threshold
//	/api/v1/stats              ingestion counters
//	/api/v1/simulate           synthetic traffic
func NewRouter(cfg *RouterConfig) *chi.Mux {
	h := cfg.Handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Delete("/", h.ClearEvents)
			r.Post("/", h.Record)
			r.Get("/{key}", h.GetEvent)
		})
		r.Post("/ingest", h.Ingest)
		r.Get("/groups/{group}", h.GetGroup)
		r.Get("/difference", h.GetDifference)
		r.Get("/level", h.GetLevel)
		r.Put("/level", h.SetLevel)
		r.Get("/stats", h.Stats)
		r.Post("/simulate", h.Simulate)
	})

	return r
}

// requestLogger logs one line per request through logrus
func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("http request")
		})
	}
}
