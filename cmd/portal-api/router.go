package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-api/handlers"
	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-api/middleware"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
	"github.com/yhseo-kgs/chatbot-proxy/internal/recent"
	"github.com/yhseo-kgs/chatbot-proxy/internal/relay"
	"github.com/yhseo-kgs/chatbot-proxy/internal/vessel"
)

// Pinger is implemented by backends the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the router wires into handlers.
type Deps struct {
	Store    *qna.Store
	Sessions *chatbot.Sessions
	Relay    http.Handler
	Vessels  *vessel.Registry
	Recent   *recent.Store
	// Backends are checked by /ready in addition to the QnA store.
	Backends map[string]Pinger
}

// AppConfig holds router settings.
type AppConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
	RateLimit      bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *AppConfig, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"chatbot-proxy"}`))
	})

	r.Get("/ready", readyHandler(deps))

	// The relay answers its own preflight. Its CORS headers go on first so
	// responses written by the limiter carry them too.
	r.Group(func(r chi.Router) {
		r.Use(relayCORS)
		if cfg.RateLimit {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		r.Handle("/api/chat", deps.Relay)
	})

	chatHandler := handlers.NewChatHandler(logger, deps.Sessions)
	qnaHandler := handlers.NewQnAHandler(logger, deps.Store)
	vesselHandler := handlers.NewVesselHandler(logger, deps.Vessels)
	recentHandler := handlers.NewRecentHandler(logger, deps.Recent)

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AllowedOrigins))
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.ClientID)

		r.Post("/api/ask", chatHandler.Ask)

		r.Route("/api/chatbot", func(r chi.Router) {
			r.Get("/welcome", chatHandler.Welcome)
			r.Get("/status", chatHandler.Status)
			r.Get("/related/{id}", chatHandler.Related)
		})

		r.Route("/api/qna", func(r chi.Router) {
			r.Get("/search", qnaHandler.Search)
			r.Get("/stats", qnaHandler.Stats)
			r.Get("/categories", qnaHandler.Categories)
			r.Get("/categories/{category}", qnaHandler.ByCategory)
			r.Get("/{id}", qnaHandler.Get)
		})

		r.Get("/api/vessels/{code}", vesselHandler.Get)

		r.Route("/api/recent-searches", func(r chi.Router) {
			r.Get("/", recentHandler.List)
			r.Post("/", recentHandler.Add)
			r.Delete("/", recentHandler.Clear)
			r.Delete("/{index}", recentHandler.Remove)
		})
	})

	return r
}

func relayCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relay.SetCORSHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

func readyHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !deps.Store.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready","reason":"qna"}`))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, p := range deps.Backends {
			if err := p.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"not ready","reason":"` + name + `"}`))
				return
			}
		}

		w.Write([]byte(`{"status":"ready"}`))
	}
}
