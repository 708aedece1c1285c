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

type UserHandler struct {
	profiles services.ProfileService
	posts    services.PostService
}

func NewUserHandler(profiles services.ProfileService, posts services.PostService) *UserHandler {
	return &UserHandler{profiles: profiles, posts: posts}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Headline:    req.Headline,
		Pronouns:    req.Pronouns,
		About:       req.About,
		Location:    req.Location,
		ContactInfo: req.ContactInfo,
		Experience:  req.Experience,
		Skills:      req.Skills,
		Connections: []string{},
		Posts:       []string{},
		Password:    req.Password,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.profiles.Create(r.Context(), profile); err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already exists"))
			return
		}
		log.Error().Err(err).Msg("create user failed")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create user"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(profile))
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list users"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profiles))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := h.profiles.GetByID(r.Context(), userID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load user"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	caller := middleware.GetUserID(r.Context())
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	if caller != userID {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("You can only update your own profile"))
		return
	}

	var req models.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case services.ErrEmptyUpdate:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Request body cannot be empty"))
		case services.ErrProfileNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		default:
			log.Error().Err(err).Str("user_id", userID).Msg("update user failed")
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update user"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

// DeleteUser removes the caller's profile and cascades over their posts
// first, so a failure mid-way leaves a profile without posts rather than
// posts without an author.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	caller := middleware.GetUserID(r.Context())
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	if caller != userID {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("You can only delete your own profile"))
		return
	}

	if _, err := h.posts.DeleteByAuthor(r.Context(), userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("cascade delete failed")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete user"))
		return
	}

	if err := h.profiles.Delete(r.Context(), userID); err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete user"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
