package services

import (
	"context"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nexosphere/backend/internal/models"
)

const (
	bootstrapPostCount    = 5
	maxBootstrapConnCount = 3
)

var pronounChoices = []string{"he/him", "she/her", "they/them", ""}

// BootstrapService is the lookup-or-create engine behind login. For an
// unseen email it synthesizes a full profile with placeholder posts and
// wires the newcomer into the connection graph of existing profiles.
//
// The write sequence is not transactional; it is ordered so that any crash
// leaves a detectable partial state (posts with an empty author id) rather
// than silent corruption.
type BootstrapService struct {
	profiles ProfileService
	posts    PostService
	faker    *gofakeit.Faker
}

func NewBootstrapService(profiles ProfileService, posts PostService, faker *gofakeit.Faker) *BootstrapService {
	return &BootstrapService{
		profiles: profiles,
		posts:    posts,
		faker:    faker,
	}
}

// Login returns the profile bound to email, creating it when absent. An
// existing profile is returned untouched: no field is rewritten and
// updated_at keeps its old value.
func (s *BootstrapService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	existing, err := s.profiles.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if err != ErrProfileNotFound {
		return nil, err
	}

	// Placeholder posts go in first, author unset until the profile exists.
	newPosts := s.makePlaceholderPosts()
	if err := s.posts.CreateMany(ctx, newPosts); err != nil {
		return nil, err
	}

	postIDs := make([]string, 0, len(newPosts))
	for _, p := range newPosts {
		postIDs = append(postIDs, p.ID)
	}

	profile := s.makeProfile(email, password, postIDs)
	if err := s.profiles.Create(ctx, profile); err != nil {
		if err == ErrEmailExists {
			// A concurrent first login won the unique-index race; return
			// its profile. The placeholder posts above stay orphaned with
			// an empty author id.
			return s.profiles.GetByEmail(ctx, email)
		}
		return nil, err
	}

	if err := s.posts.SetAuthor(ctx, postIDs, profile.ID); err != nil {
		return nil, err
	}

	connections, err := s.connectToExisting(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	profile.Connections = connections

	profile.Posts = dedupStrings(profile.Posts)
	profile.Skills = dedupStrings(profile.Skills)
	profile.Experience = dedupExperienceByTitle(profile.Experience)

	log.Info().
		Str("profile_id", profile.ID).
		Int("posts", len(profile.Posts)).
		Int("connections", len(profile.Connections)).
		Msg("bootstrapped new profile")
	return profile, nil
}

func (s *BootstrapService) makePlaceholderPosts() []*models.Post {
	now := time.Now().UTC()
	posts := make([]*models.Post, 0, bootstrapPostCount)
	for i := 0; i < bootstrapPostCount; i++ {
		comments := make([]models.Comment, 0, 4)
		for j := 0; j < s.faker.Number(1, 4); j++ {
			comments = append(comments, models.Comment{
				ID:        uuid.New().String(),
				AuthorID:  uuid.New().String(),
				Content:   s.faker.Sentence(10),
				Timestamp: now,
			})
		}
		posts = append(posts, &models.Post{
			ID:        uuid.New().String(),
			Content:   s.faker.Sentence(12),
			Likes:     s.faker.Number(0, 100),
			Comments:  comments,
			Timestamp: now,
		})
	}
	return posts
}

func (s *BootstrapService) makeProfile(email, password string, postIDs []string) *models.Profile {
	now := time.Now().UTC()

	experience := make([]models.Experience, 0, 3)
	for i := 0; i < s.faker.Number(1, 3); i++ {
		exp := models.Experience{
			ID:        uuid.New().String(),
			Title:     s.faker.JobTitle(),
			StartDate: s.faker.DateRange(now.AddDate(-10, 0, 0), now),
		}
		if !s.faker.Bool() {
			end := s.faker.DateRange(now.AddDate(0, -11, 0), now)
			exp.EndDate = &end
		}
		if s.faker.Bool() {
			exp.CurrentCompany = s.faker.Company()
		}
		experience = append(experience, exp)
	}

	skills := make([]string, 0, 7)
	for i := 0; i < s.faker.Number(3, 7); i++ {
		skills = append(skills, strings.Fields(s.faker.JobTitle())[0])
	}

	return &models.Profile{
		ID:       uuid.New().String(),
		Name:     displayNameFromEmail(email),
		Headline: s.faker.JobTitle(),
		Pronouns: s.faker.RandomString(pronounChoices),
		About:    s.faker.Sentence(15),
		Location: &models.Location{
			City:    s.faker.City(),
			Country: s.faker.Country(),
		},
		ContactInfo: models.ContactInfo{
			Email:   email,
			Website: s.faker.URL(),
		},
		Experience:  experience,
		Analytics:   map[string]any{"views": s.faker.Number(0, 1000)},
		Skills:      skills,
		Connections: []string{},
		Posts:       postIDs,
		Password:    password,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// connectToExisting picks up to three existing profiles at random and links
// them with the newcomer in both directions, keeping the edge symmetric.
func (s *BootstrapService) connectToExisting(ctx context.Context, profileID string) ([]string, error) {
	others, err := s.profiles.ListExcept(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(others) == 0 {
		return []string{}, nil
	}

	s.faker.ShuffleAnySlice(others)
	count := s.faker.Number(1, maxBootstrapConnCount)
	if count > len(others) {
		count = len(others)
	}

	selected := make([]string, 0, count)
	for _, other := range others[:count] {
		selected = append(selected, other.ID)
	}
	selected = dedupStrings(selected)

	for _, id := range selected {
		if err := s.profiles.AddConnection(ctx, id, profileID); err != nil {
			return nil, err
		}
	}
	if err := s.profiles.SetConnections(ctx, profileID, selected); err != nil {
		return nil, err
	}
	return selected, nil
}

// displayNameFromEmail turns the local part of an email into a title-cased
// display name: "a.b@x.com" -> "A B".
func displayNameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)

	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// dedupStrings drops repeats, keeping first-occurrence order.
func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// dedupExperienceByTitle drops entries whose title was already seen, keeping
// first-occurrence order.
func dedupExperienceByTitle(in []models.Experience) []models.Experience {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.Experience, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e.Title]; ok {
			continue
		}
		seen[e.Title] = struct{}{}
		out = append(out, e)
	}
	return out
}
