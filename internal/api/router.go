// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/dcsdash/internal/metrics"
	"github.com/tomtom215/dcsdash/internal/middleware"
)

// Middlewares are the access-control layers wrapped around protected
// routes, applied in order.
type Middlewares struct {
	Authenticate func(http.Handler) http.Handler
	Authorize    func(http.Handler) http.Handler
}

func (m Middlewares) chain() []func(http.Handler) http.Handler {
	var out []func(http.Handler) http.Handler
	if m.Authenticate != nil {
		out = append(out, m.Authenticate)
	}
	if m.Authorize != nil {
		out = append(out, m.Authorize)
	}
	return out
}

// NewRouter builds the chi router for h.
func NewRouter(h *Handler, mw Middlewares) http.Handler {
	r := chi.NewRouter()
	sec := h.cfg.Security

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders(h.cfg.IsProduction()))
	r.Use(middleware.Compression())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   sec.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(h.rateLimit())
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusNotFound, CodeNotFound, "Route not found", nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusMethodNotAllowed, CodeBadRequest, "Method not allowed", nil)
		})

		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(mw.chain()...)

			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)

			r.Get("/meta", h.Meta)
			r.Get("/tags", h.Tags)
			r.Post("/data", h.Data)
			r.Post("/dashboard/view", h.DashboardView)

			r.Route("/saved-selections", func(r chi.Router) {
				r.Get("/", h.ListLayouts)
				r.Post("/", h.CreateLayout)
				r.Get("/{id}", h.GetLayout)
				r.Delete("/{id}", h.DeleteLayout)
				r.Post("/{id}/reorder", h.ReorderLayout)
			})

			r.Route("/tag-settings", func(r chi.Router) {
				r.Get("/", h.ListTagSettings)
				r.Post("/", h.SaveTagSetting)
				r.Get("/{tag}", h.GetTagSetting)
				r.Delete("/{tag}", h.ResetTagSetting)
			})

			r.Route("/units", func(r chi.Router) {
				r.Get("/", h.ListUnits)
				r.Post("/", h.CreateUnit)
				r.Delete("/{id}", h.DeleteUnit)
			})
		})
	})

	r.With(mw.chain()...).Get("/ws", h.WebSocket)

	if dir := h.cfg.Server.StaticDir; dir != "" {
		r.Handle("/*", newStaticHandler(dir))
	}

	return r
}

// rateLimit is the per-IP limiter for /api.
func (h *Handler) rateLimit() func(http.Handler) http.Handler {
	sec := h.cfg.Security
	if sec.RateLimitDisabled || sec.RateLimitReqs <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		sec.RateLimitReqs,
		sec.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues("/api").Inc()
			respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "Too many requests", nil)
		}),
	)
}
