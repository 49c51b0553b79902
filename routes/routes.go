package routes

import (
	"github.com/Dosada05/event-companion/handlers"
	"github.com/Dosada05/event-companion/middleware"
	"github.com/Dosada05/event-companion/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Player    *handlers.PlayerHandler
	Event     *handlers.EventHandler
	League    *handlers.LeagueHandler
	Backup    *handlers.BackupHandler
	WebSocket *handlers.WebSocketHandler
}

// InitRoutes wires the HTTP surface: reads are public so any phone at the
// venue can follow along, mutations need a manager token.
func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	managerOnly := func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.RequireRole(string(models.RoleManager)))
	}

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.List)
		r.Get("/{id}", h.Player.Get)

		r.Group(func(r chi.Router) {
			managerOnly(r)
			r.Post("/", h.Player.Create)
			r.Delete("/{id}", h.Player.Delete)
			r.Post("/nicknames/rebuild", h.Player.RebuildNicknames)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.Get("/", h.Event.List)
		r.Get("/{id}", h.Event.Get)
		r.Get("/{id}/standings", h.Event.Standings)
		r.Get("/{id}/time", h.Event.RoundTime)
		r.Get("/{id}/ws", h.WebSocket.Subscribe)

		r.Group(func(r chi.Router) {
			managerOnly(r)
			r.Post("/", h.Event.Create)
			r.Post("/{id}/rounds/first", h.Event.StartRoundOne)
			r.Post("/{id}/rounds/next", h.Event.NextRound)
			r.Post("/{id}/close", h.Event.Close)
			r.Post("/{id}/reopen", h.Event.Reopen)
			r.Patch("/matches/{matchID}/score", h.Event.SetMatchScore)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/", h.League.List)
		r.Get("/current", h.League.CurrentTable)
		r.Get("/{id}", h.League.Table)
		r.Get("/{id}/top", h.League.Top)

		r.Group(func(r chi.Router) {
			managerOnly(r)
			r.Post("/", h.League.Open)
			r.Post("/{id}/close", h.League.Close)
		})
	})

	router.Group(func(r chi.Router) {
		managerOnly(r)
		r.Post("/backups", h.Backup.Run)
	})

	return router
}
