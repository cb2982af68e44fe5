package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/jobboard-be/internal/api/handlers"
	"github.com/isdelr/jobboard-be/internal/auth"
	"github.com/isdelr/jobboard-be/internal/config"
	"github.com/isdelr/jobboard-be/internal/services"
	"github.com/isdelr/jobboard-be/internal/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Config    *config.Config
	DB        *sql.DB
	Hub       *websocket.Hub
	Tokens    *auth.Tokens
	Transport auth.Transport

	Users  services.UserServiceProvider
	Jobs   services.JobServiceProvider
	Events services.EventServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	cfg := deps.Config
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))
	r.Use(middleware.Recoverer)

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !cfg.IsProduction(),
	})
	r.Use(secureMiddleware.Handler)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	gate := auth.NewGate(deps.Tokens, deps.Transport)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens, deps.Transport)
	jobHandler := handlers.NewJobHandler(deps.Jobs)
	eventHandler := handlers.NewEventHandler(deps.Events)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, cfg.AllowedOrigins)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Server start"))
	})
	r.Get("/healthz", healthz(deps.DB))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(gate.Middleware).Get("/me", authHandler.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(gate.Middleware)

			r.Get("/events", eventHandler.GetRecent)

			r.Route("/jobs", func(r chi.Router) {
				r.Post("/post", jobHandler.Create)
				r.Get("/all", jobHandler.GetAll)
				r.Get("/user", jobHandler.GetMine)
				r.Get("/feed", wsHandler.Serve)
				r.Delete("/delete/{id}", jobHandler.Delete)
				r.Get("/{id}", jobHandler.Get)
				r.Patch("/{id}", jobHandler.Update)
			})
		})
	})

	return r
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}
