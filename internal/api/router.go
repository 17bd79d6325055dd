package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/theo/champion-teams-website/internal/api/handlers"
	"github.com/theo/champion-teams-website/internal/api/middleware"
	"github.com/theo/champion-teams-website/internal/config"
	"github.com/theo/champion-teams-website/internal/service"
	"github.com/theo/champion-teams-website/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	referenceHandler := handlers.NewReferenceHandler(services.Reference)
	rosterHandler := handlers.NewRosterHandler(services.Roster, services.Transfer)
	teamHandler := handlers.NewTeamHandler(services.Team)
	optimizeHandler := handlers.NewOptimizeHandler(services.Optimize)
	shareHandler := handlers.NewShareHandler(services.Share)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Reference collections (public)
		r.Route("/champions", func(r chi.Router) {
			r.Get("/", referenceHandler.GetChampions)
			r.Get("/{id}", referenceHandler.GetChampion)
		})
		r.Get("/synergies", referenceHandler.GetSynergies)
		r.Get("/legacy-pieces", referenceHandler.GetLegacyPieces)

		// Shared teams resolve without auth
		r.Get("/share/{code}", shareHandler.Resolve)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Reference seeding (should be admin-only in production)
			r.Post("/admin/reference", referenceHandler.Seed)

			// Roster routes
			r.Route("/roster", func(r chi.Router) {
				r.Get("/", rosterHandler.Get)
				r.Post("/", rosterHandler.Add)
				r.Post("/import", rosterHandler.Import)
				r.Get("/export", rosterHandler.ExportJSON)
				r.Get("/export.xlsx", rosterHandler.ExportXLSX)
				r.Put("/{championID}", rosterHandler.Update)
				r.Delete("/{championID}", rosterHandler.Remove)
			})

			// Team routes
			r.Route("/teams", func(r chi.Router) {
				r.Post("/", teamHandler.Save)
				r.Get("/", teamHandler.List)
				r.Post("/evaluate", teamHandler.Evaluate)
				r.Get("/{id}", teamHandler.Get)
				r.Delete("/{id}", teamHandler.Delete)
				r.Post("/{id}/swap", teamHandler.Swap)
				r.Post("/{id}/share", shareHandler.Create)
			})

			// Optimization jobs
			r.Route("/optimize", func(r chi.Router) {
				r.Post("/", optimizeHandler.Start)
				r.Get("/{jobID}", optimizeHandler.Get)
				r.Delete("/{jobID}", optimizeHandler.Cancel)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
