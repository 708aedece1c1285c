package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexosphere/backend/internal/models"
)

func TestCreatePost_AuthorIsAlwaysCaller(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "author@x.com")

	rec := env.do(t, http.MethodPost, "/api/posts", models.CreatePostRequest{
		Content: "first post",
	}, profile.ID)
	require.Equal(t, http.StatusCreated, rec.Code)

	var post models.Post
	decodeData(t, rec, &post)
	assert.Equal(t, profile.ID, post.AuthorID)
	assert.Equal(t, "first post", post.Content)
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.Timestamp.IsZero())
}

func TestCreatePost_RequiresIdentity(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/posts", models.CreatePostRequest{Content: "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePost_RequiresContent(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/posts", models.CreatePostRequest{}, "someone")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPost(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "reader@x.com")

	rec := env.do(t, http.MethodGet, "/api/posts/"+profile.Posts[0], nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var post models.Post
	decodeData(t, rec, &post)
	assert.Equal(t, profile.Posts[0], post.ID)
	assert.Equal(t, profile.ID, post.AuthorID)

	rec = env.do(t, http.MethodGet, "/api/posts/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUserPosts(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "lister@x.com")

	rec := env.do(t, http.MethodGet, "/api/users/"+profile.ID+"/posts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []models.Post
	decodeData(t, rec, &posts)
	assert.Len(t, posts, 5)
}

func TestUpdatePost_AuthorOnly(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "editor@x.com")
	postID := profile.Posts[0]

	content := "edited"
	body := models.UpdatePostRequest{Content: &content}

	rec := env.do(t, http.MethodPut, "/api/posts/"+postID, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/posts/"+postID, body, "someone-else")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/posts/"+postID, body, profile.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var post models.Post
	decodeData(t, rec, &post)
	assert.Equal(t, "edited", post.Content)
}

func TestUpdatePost_Missing(t *testing.T) {
	env := newTestEnv()

	content := "x"
	rec := env.do(t, http.MethodPut, "/api/posts/ghost", models.UpdatePostRequest{Content: &content}, "anyone")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv()
	profile := env.login(t, "deleter@x.com")
	postID := profile.Posts[0]

	// Non-author delete reads as not-found and leaves the post alone.
	rec := env.do(t, http.MethodDelete, "/api/posts/"+postID, nil, "intruder")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, err := env.posts.GetByID(context.Background(), postID)
	assert.NoError(t, err)

	rec = env.do(t, http.MethodDelete, "/api/posts/"+postID, nil, profile.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/posts/"+postID, nil, profile.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
