package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/nexosphere/backend/internal/middleware"
	"github.com/nexosphere/backend/internal/models"
	"github.com/nexosphere/backend/internal/services"
)

const testJWTSecret = "test-secret"

// testEnv wires the handlers to in-memory services behind the same routes
// the server mounts.
type testEnv struct {
	profiles *services.MemoryProfileService
	posts    *services.MemoryPostService
	router   *chi.Mux
}

func newTestEnv() *testEnv {
	profiles := services.NewMemoryProfileService()
	posts := services.NewMemoryPostService()
	bootstrap := services.NewBootstrapService(profiles, posts, gofakeit.New(42))

	authHandler := NewAuthHandler(bootstrap, testJWTSecret, time.Hour)
	userHandler := NewUserHandler(profiles, posts)
	postHandler := NewPostHandler(posts)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Identity(testJWTSecret))

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

	return &testEnv{profiles: profiles, posts: posts, router: r}
}

// do performs a request; a non-empty userID is sent as the identity header.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, "expected success, got error: %s", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// login bootstraps a profile through the API and returns it.
func (e *testEnv) login(t *testing.T, email string) models.Profile {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login", models.LoginRequest{Email: email, Password: "pw"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AuthResponse
	decodeData(t, rec, &resp)
	return resp.Profile
}
