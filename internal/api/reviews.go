package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rfconstrucoes/obra/internal/types"
	"github.com/rfconstrucoes/obra/internal/validation"
)

// ListReviews handles GET /api/v1/reviews. Only approved reviews are
// ever served publicly.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Reviews(true))
}

// ListAllReviews handles GET /api/v1/admin/reviews, including
// submissions awaiting moderation.
func (h *Handler) ListAllReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Reviews(false))
}

type submitReviewRequest struct {
	ClientName string `json:"client_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// SubmitReview handles POST /api/v1/reviews. Submissions always enter
// moderation unapproved, whatever the payload claims.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	review := types.Review{
		ClientName: req.ClientName,
		Rating:     req.Rating,
		Comment:    req.Comment,
		AvatarURL:  req.AvatarURL,
	}

	if errs := validation.ValidateReview(review); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Review contains invalid fields", errs)
		return
	}

	stored, err := h.state.AddReview(r.Context(), review)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// ToggleReviewApproval handles PATCH /api/v1/admin/reviews/{id}/approval.
// It flips the current moderation state of the review.
func (h *Handler) ToggleReviewApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	current, found := false, false
	for _, review := range h.state.Reviews(false) {
		if review.ID == id {
			current = review.Approved
			found = true
			break
		}
	}
	if !found {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	if err := h.state.ToggleReviewApproval(r.Context(), id, current); err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"approved": !current})
}

// DeleteReview handles DELETE /api/v1/admin/reviews/{id}. Rejecting a
// review is deleting it.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.state.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
