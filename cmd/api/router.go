package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/crm-board/internal/infra/http/handlers"
	appmw "github.com/xavierca1/crm-board/internal/infra/http/middleware"
)

type routerDeps struct {
	Cliente        *handlers.ClienteHandler
	Board          *handlers.BoardHandler
	Theme          *handlers.ThemeHandler
	Health         *handlers.HealthHandler
	CreateLimiter  *appmw.RateLimiter
	AllowedOrigins []string
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(appmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/clientes", func(r chi.Router) {
		r.With(appmw.RateLimit(d.CreateLimiter)).Post("/", d.Cliente.Create)
		r.Get("/whatsapp/{whatsappId}", d.Cliente.GetByWhatsAppID)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Cliente.Get)
			r.Delete("/", d.Cliente.Delete)
			r.Patch("/status", d.Cliente.UpdateStatus)
			r.Patch("/trava", d.Cliente.SetTrava)
			r.Patch("/stage", d.Cliente.SetStage)
			r.Patch("/qualificado", d.Cliente.SetQualificado)
			r.Patch("/active", d.Cliente.SetActive)
			r.Post("/interactions", d.Cliente.TouchInteraction)
		})
	})

	r.Get("/board", d.Board.Handle)
	r.Get("/theme", d.Theme.Handle)

	r.With(middleware.Timeout(5 * time.Second)).Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
