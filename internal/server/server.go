// Package server wires the REST API: lead CRUD, the conversational agent
// endpoint, health, and Prometheus metrics.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Addr            string        `split_words:"true" default:":8080"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	AllowedOrigins  []string      `split_words:"true" default:"*"`
}

// NewRouter assembles the chi router with all routes and middleware.
func NewRouter(cfg Config, leads *LeadHandler, agent *AgentHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", leads.Create)
			r.Get("/", leads.List)
			r.Put("/{id}", leads.Update)
			r.Delete("/{id}", leads.Delete)
		})
		r.Post("/agent/generate", agent.Generate)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// New builds the http.Server around the assembled router.
func New(cfg Config, leads *LeadHandler, agent *AgentHandler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(cfg, leads, agent),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
