package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// Static files (served from embedded filesystem)
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// Game page
	r.Get("/", h.handleIndex)

	// WebSocket snapshot stream (long-lived, outside the timeout group)
	if h.Hub != nil {
		r.Get("/ws/{gameID}", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		// Submissions wait on the oracle, so the timeout covers its deadline
		r.Use(middleware.Timeout(90 * time.Second))

		// Games
		r.Get("/api/games", h.handleListGames)
		r.Post("/api/games", h.handleCreateGame)
		r.Get("/api/games/{gameID}", h.handleGetGame)
		r.Delete("/api/games/{gameID}", h.handleEndGame)
		r.Post("/api/games/{gameID}/start", h.handleStartGame)
		r.Post("/api/games/{gameID}/select", h.handleSelectClue)
		r.Put("/api/games/{gameID}/draft", h.handleUpdateDraft)
		r.Post("/api/games/{gameID}/submit", h.handleSubmitResponse)
		r.Post("/api/games/{gameID}/modal/close", h.handleCloseModal)

		// Clue bank
		r.Get("/api/corpus/stats", h.handleCorpusStats)
		r.Post("/api/corpus/import", h.handleCorpusImport)

		// Share code
		r.Get("/api/qr", h.handleQRCode)
	})

	return r
}
