package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fyugp-assistant/internal/handlers"
	"fyugp-assistant/internal/middleware"
	"fyugp-assistant/internal/session"
	"fyugp-assistant/internal/websocket"
)

type Handlers struct {
	Session  *handlers.SessionHandler
	Chat     *handlers.ChatHandler
	Document *handlers.DocumentHandler
	Info     *handlers.InfoHandler
}

func New(
	tokens *middleware.SessionTokens,
	sessions *session.Manager,
	h Handlers,
	wsHub *websocket.Hub,
	chatLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session creation limiter (20 req/min per IP)
	createLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Public Routes ────
		r.Get("/links", h.Info.Links)
		r.Get("/help", h.Info.Help)
		r.Get("/supported-formats", h.Document.SupportedFormats)
		r.With(createLimiter.Middleware).Post("/sessions", h.Session.Create)

		// ──── Session Routes ────
		r.Route("/session", func(r chi.Router) {
			r.Use(tokens.Middleware(sessions))
			r.Get("/", h.Session.Get)
			r.Delete("/", h.Session.End)

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", h.Chat.History)
				r.With(chatLimiter.Middleware).Post("/", h.Chat.AskQuestion)
				r.Delete("/", h.Chat.Reset)
			})

			r.Route("/document", func(r chi.Router) {
				r.Get("/", h.Document.Status)
				r.With(chatLimiter.Middleware).Post("/", h.Document.Upload)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
