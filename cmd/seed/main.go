package main

import (
	"context"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexosphere/backend/internal/config"
	"github.com/nexosphere/backend/internal/models"
	"github.com/nexosphere/backend/internal/services"
)

// Demo data inserted by the seed tool. The first profile authors the demo
// posts; the marker email guards against double-seeding.
const markerEmail = "jordan.lee@samplemail.com"

type demoUser struct {
	name     string
	headline string
	email    string
	password string
}

var demoUsers = []demoUser{
	{"Jordan Lee", "Senior Backend Engineer | Go • Kubernetes", markerEmail, "pw1"},
	{"Priyanka Desai", "Product Manager • B2B SaaS", "priyanka.desai@samplemail.com", "pw2"},
	{"Miguel Alvarez", "Data Scientist | NLP • Generative AI", "miguel.alvarez@samplemail.com", "pw3"},
	{"Sophie Müller", "UX Designer | Fintech • Mobile", "sophie.mueller@samplemail.com", "pw4"},
	{"Noah Carter", "DevOps Engineer | Cloud • IaC", "noah.carter@samplemail.com", "pw5"},
}

var demoPostContents = []string{
	"Just upgraded our Kubernetes cluster to 1.31—zero downtime! 🚀",
	"Deployed a new micro-service stack; latency down 18 %.",
	"Exploring operators for smarter cluster self-healing.",
	"Mentoring junior devs on Go concurrency patterns.",
	"Back from KubeCon—so many ideas for the next release!",
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	if _, err := profileService.GetByEmail(ctx, markerEmail); err == nil {
		log.Info().Msg("demo data already exists, nothing to do")
		return
	} else if err != services.ErrProfileNotFound {
		log.Fatal().Err(err).Msg("seed check failed")
	}

	now := time.Now().UTC()

	profiles := make([]*models.Profile, 0, len(demoUsers))
	for _, u := range demoUsers {
		p := &models.Profile{
			ID:          uuid.New().String(),
			Name:        u.name,
			Headline:    u.headline,
			ContactInfo: models.ContactInfo{Email: u.email},
			Experience:  []models.Experience{},
			Connections: []string{},
			Posts:       []string{},
			Password:    u.password,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := profileService.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("failed to insert demo profile")
		}
		profiles = append(profiles, p)
	}
	log.Info().Int("count", len(profiles)).Msg("demo profiles inserted")

	// Wire each profile to 1-3 random peers, both directions, so the
	// connection graph starts out symmetric.
	faker := gofakeit.New(0)
	for _, p := range profiles {
		peers := make([]*models.Profile, 0, len(profiles)-1)
		for _, q := range profiles {
			if q.ID != p.ID {
				peers = append(peers, q)
			}
		}
		faker.ShuffleAnySlice(peers)
		count := faker.Number(1, 3)
		if count > len(peers) {
			count = len(peers)
		}
		for _, peer := range peers[:count] {
			if err := profileService.AddConnection(ctx, p.ID, peer.ID); err != nil {
				log.Fatal().Err(err).Msg("failed to wire connection")
			}
			if err := profileService.AddConnection(ctx, peer.ID, p.ID); err != nil {
				log.Fatal().Err(err).Msg("failed to wire connection")
			}
		}
	}
	log.Info().Msg("demo connections wired")

	author := profiles[0]
	posts := make([]*models.Post, 0, len(demoPostContents))
	postIDs := make([]string, 0, len(demoPostContents))
	for _, content := range demoPostContents {
		p := &models.Post{
			ID:        uuid.New().String(),
			AuthorID:  author.ID,
			Content:   content,
			Likes:     faker.Number(5, 40),
			Comments:  []models.Comment{},
			Timestamp: now,
		}
		posts = append(posts, p)
		postIDs = append(postIDs, p.ID)
	}
	if err := postService.CreateMany(ctx, posts); err != nil {
		log.Fatal().Err(err).Msg("failed to insert demo posts")
	}
	if _, err := profileService.Update(ctx, author.ID, &models.UpdateProfileRequest{Posts: &postIDs}); err != nil {
		log.Fatal().Err(err).Msg("failed to back-reference demo posts")
	}
	log.Info().Int("count", len(posts)).Str("author", author.Name).Msg("demo posts inserted")
}
