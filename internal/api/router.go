package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/smartflash/internal/api/middleware"
)

// RouterDeps holds what NewRouter needs. Auth is optional; without it the
// API is open.
type RouterDeps struct {
	Decks      DeckStore
	Generation GenerationService
	Sessions   SessionManager
	Auth       *middleware.TokenAuth
	Logger     *slog.Logger
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(log))
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	deckHandler := NewDeckHandler(deps.Decks, log)
	cardHandler := NewCardHandler(deps.Decks, log)
	generationHandler := NewGenerationHandler(deps.Generation, log)
	sessionHandler := NewSessionHandler(deps.Sessions, log)

	r.Route("/api", func(r chi.Router) {
		if deps.Auth != nil {
			r.Use(deps.Auth.Authenticate)
		}

		// Deck endpoints
		r.Get("/decks", deckHandler.ListDecks)
		r.Post("/decks", deckHandler.CreateDeck)
		r.Post("/decks/import", deckHandler.ImportDecks)
		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", deckHandler.GetDeck)
			r.Patch("/", deckHandler.RenameDeck)
			r.Delete("/", deckHandler.DeleteDeck)
			r.Post("/shuffle", deckHandler.ShuffleDeck)
			r.Get("/export", deckHandler.ExportDeck)

			// Card endpoints
			r.Post("/cards", cardHandler.AddCard)
			r.Put("/cards/{cardID}", cardHandler.UpdateCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)
			r.Post("/cards/{cardID}/toggle", cardHandler.ToggleCard)
		})

		// Generation endpoints
		r.Post("/generations", generationHandler.CreateGeneration)
		r.Get("/generations/{taskID}", generationHandler.GetGeneration)

		// Review session endpoints
		r.Post("/sessions", sessionHandler.OpenSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.CloseSession)
			r.Post("/next", sessionHandler.Next)
			r.Post("/prev", sessionHandler.Prev)
			r.Post("/flip", sessionHandler.Flip)
			r.Post("/restart", sessionHandler.Restart)
			r.Post("/done", sessionHandler.MarkDone)
			r.Put("/filter", sessionHandler.SetFilter)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
