package handlers

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexosphere/backend/internal/models"
)

func TestLogin_BootstrapsNewProfile(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/login", models.LoginRequest{
		Email:    "a.b@x.com",
		Password: "pw",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AuthResponse
	decodeData(t, rec, &resp)

	assert.Equal(t, "A B", resp.Profile.Name)
	assert.Len(t, resp.Profile.Posts, 5)
	assert.Empty(t, resp.Profile.Connections)
	assert.NotEmpty(t, resp.Token)

	// The token is a valid HS256 token naming the new profile.
	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, resp.Profile.ID, claims["user_id"])
}

func TestLogin_SecondCallReturnsSameProfile(t *testing.T) {
	env := newTestEnv()

	first := env.login(t, "repeat@x.com")
	second := env.login(t, "repeat@x.com")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestLogin_RejectsInvalidEmail(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/login", models.LoginRequest{
		Email:    "not-an-email",
		Password: "pw",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env2 := decodeEnvelope(t, rec)
	assert.False(t, env2.Success)
	assert.Contains(t, env2.Errors, "email")
}

func TestLogin_RejectsMissingPassword(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/login", models.LoginRequest{Email: "ok@x.com"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Errors, "password")
}

func TestLogin_RejectsMalformedBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/login", "not json at all", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
