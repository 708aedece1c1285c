package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexosphere/backend/internal/models"
	"github.com/nexosphere/backend/internal/services"
)

func createUserBody(email string) models.CreateProfileRequest {
	return models.CreateProfileRequest{
		Name:        "Explicit User",
		Headline:    "Engineer",
		ContactInfo: models.ContactInfo{Email: email},
		Password:    "pw",
	}
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/users", createUserBody("new@x.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var profile models.Profile
	decodeData(t, rec, &profile)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "Explicit User", profile.Name)
	assert.Empty(t, profile.Connections)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/users", createUserBody("dup@x.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users", createUserBody("dup@x.com"), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/users", createUserBody("nope"), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Errors, "email")
}

func TestGetUser(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "get@x.com")

	rec := env.do(t, http.MethodGet, "/api/users/"+profile.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Profile
	decodeData(t, rec, &got)
	assert.Equal(t, profile.ID, got.ID)

	rec = env.do(t, http.MethodGet, "/api/users/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv()
	env.login(t, "one@x.com")
	env.login(t, "two@x.com")

	rec := env.do(t, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var profiles []models.Profile
	decodeData(t, rec, &profiles)
	assert.Len(t, profiles, 2)
}

func TestUpdateUser_OwnerOnly(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "owner@x.com")

	name := "Updated Name"
	body := models.UpdateProfileRequest{Name: &name}

	// No identity.
	rec := env.do(t, http.MethodPut, "/api/users/"+profile.ID, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Someone else.
	rec = env.do(t, http.MethodPut, "/api/users/"+profile.ID, body, "someone-else")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := env.profiles.GetByID(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.Name, stored.Name, "denied update must not mutate")

	// The owner.
	rec = env.do(t, http.MethodPut, "/api/users/"+profile.ID, body, profile.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Profile
	decodeData(t, rec, &got)
	assert.Equal(t, "Updated Name", got.Name)
}

func TestUpdateUser_EmptyBody(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "empty@x.com")

	rec := env.do(t, http.MethodPut, "/api/users/"+profile.ID, models.UpdateProfileRequest{}, profile.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUser_CascadesPosts(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "cascade@x.com")

	posts, err := env.posts.ListByAuthor(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Len(t, posts, 5, "bootstrap seeds five posts")

	rec := env.do(t, http.MethodDelete, "/api/users/"+profile.ID, nil, profile.ID)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = env.profiles.GetByID(context.Background(), profile.ID)
	assert.Equal(t, services.ErrProfileNotFound, err)

	posts, err = env.posts.ListByAuthor(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Empty(t, posts, "authored posts are removed with the profile")
}

func TestDeleteUser_Denied(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "keep@x.com")

	rec := env.do(t, http.MethodDelete, "/api/users/"+profile.ID, nil, "intruder")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err := env.profiles.GetByID(context.Background(), profile.ID)
	assert.NoError(t, err)
}

func TestDeleteUser_Missing(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodDelete, "/api/users/ghost", nil, "ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
