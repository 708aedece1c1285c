package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nexosphere/backend/internal/middleware"
	"github.com/nexosphere/backend/internal/models"
	"github.com/nexosphere/backend/internal/services"
)

type PostHandler struct {
	posts services.PostService
}

func NewPostHandler(posts services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// CreatePost always stamps the caller as the author; the request cannot
// speak for anyone else.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserID(r.Context())
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreatePostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  caller,
		Content:   req.Content,
		Comments:  []models.Comment{},
		Timestamp: time.Now().UTC(),
	}

	if err := h.posts.Create(r.Context(), post); err != nil {
		log.Error().Err(err).Str("author_id", caller).Msg("create post failed")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create post"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(post))
}

func (h *PostHandler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	posts, err := h.posts.ListByAuthor(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list posts"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(posts))
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	post, err := h.posts.GetByID(r.Context(), postID)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load post"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	caller := middleware.GetUserID(r.Context())
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	existing, err := h.posts.GetByID(r.Context(), postID)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load post"))
		return
	}
	if existing.AuthorID != caller {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not the author"))
		return
	}

	var req models.UpdatePostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.posts.Update(r.Context(), postID, &req)
	if err != nil {
		switch err {
		case services.ErrEmptyUpdate:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Request body cannot be empty"))
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		default:
			log.Error().Err(err).Str("post_id", postID).Msg("update post failed")
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update post"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	caller := middleware.GetUserID(r.Context())
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	if err := h.posts.Delete(r.Context(), postID, caller); err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found or not owner"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete post"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
