package routes

import (
	"net/http"

	_ "github.com/easoftwareGit/bowl-tmnts-2-sub002/docs" // swagger doc
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/handlers"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/middleware"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	bracketHandler *handlers.BracketHandler,
	entryHandler *handlers.EntryHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Post("/auth/login", authHandler.Login)

	// Только чтение доступно без токена
	router.Route("/brkts/{brktID}", func(r chi.Router) {
		r.Get("/entries", entryHandler.ListEntries)
		r.Get("/grid", bracketHandler.GetGrid)
		r.Get("/locked", bracketHandler.GetLocked)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.Authorize(models.RoleDirector, models.RoleAdmin))

			r.Put("/entries", entryHandler.UpsertEntry)
			r.Delete("/entries/{playerID}", entryHandler.DeleteEntry)
			r.Post("/lock", bracketHandler.Lock)
			r.Delete("/lock", bracketHandler.Unlock)
		})
	})

	router.Get("/ws/brkts/{brktID}", webSocketHandler.ServeWs)
}
