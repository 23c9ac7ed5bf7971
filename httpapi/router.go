// Package httpapi exposes draw lookup and ticket checking over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"lottocheck/domain/interfaces"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// CachedDraws lists the draws already held in memory
type CachedDraws interface {
	DrawIDs() []int
}

// LatestKnown reports the highest draw a latest-draw search has resolved
type LatestKnown interface {
	Latest() (int, bool)
}

// Handler serves the lotto HTTP API
type Handler struct {
	service interfaces.LottoService
	cache   CachedDraws
	latest  LatestKnown
}

// NewHandler creates a handler. cache and latest may be nil.
func NewHandler(service interfaces.LottoService, cache CachedDraws, latest LatestKnown) *Handler {
	return &Handler{
		service: service,
		cache:   cache,
		latest:  latest,
	}
}

// NewRouter mounts the API routes
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/odds", h.getOdds)

	r.Route("/draws", func(r chi.Router) {
		r.Get("/", h.listCachedDraws)
		r.Get("/latest", h.getLatestDraw)
		r.Get("/{drawID}", h.getDraw)
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.checkTickets)
		r.Post("/check", h.classifyTicket)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}
