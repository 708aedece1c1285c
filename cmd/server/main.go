package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexosphere/backend/internal/config"
	"github.com/nexosphere/backend/internal/handlers"
	appMiddleware "github.com/nexosphere/backend/internal/middleware"
	"github.com/nexosphere/backend/internal/services"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Local development convenience; real deployments set env directly.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := services.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB)

	profileService, err := services.NewMongoProfileService(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize profile service")
	}
	postService, err := services.NewMongoPostService(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize post service")
	}
	bootstrapService := services.NewBootstrapService(profileService, postService, gofakeit.New(0))

	authHandler := handlers.NewAuthHandler(bootstrapService, cfg.JWTSecret, cfg.JWTExpiration)
	userHandler := handlers.NewUserHandler(profileService, postService)
	postHandler := handlers.NewPostHandler(postService)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(appMiddleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Identity(cfg.JWTSecret))

			r.Route("/users", func(r chi.Router) {
				r.Post("/", userHandler.CreateUser)
				r.Get("/", userHandler.ListUsers)

				r.Route("/{userID}", func(r chi.Router) {
					r.Get("/", userHandler.GetUser)
					r.Put("/", userHandler.UpdateUser)
					r.Delete("/", userHandler.DeleteUser)
					r.Get("/posts", postHandler.ListUserPosts)
				})
			})

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", postHandler.CreatePost)

				r.Route("/{postID}", func(r chi.Router) {
					r.Get("/", postHandler.GetPost)
					r.Put("/", postHandler.UpdatePost)
					r.Delete("/", postHandler.DeletePost)
				})
			})
		})
	})

	log.Info().Str("addr", cfg.ServerAddress).Msg("Nexosphere API server starting")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
