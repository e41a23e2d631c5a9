package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rfconstrucoes/obra/internal/copywriter"
	"github.com/rfconstrucoes/obra/internal/types"
	"github.com/rfconstrucoes/obra/internal/validation"
)

type describeRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type describeResponse struct {
	Description string `json:"description"`
}

// DescribeProject handles POST /api/v1/admin/projects/describe. It
// drafts marketing copy for the admin form; the feature is optional and
// reports 503 when no generative backend is configured.
func (h *Handler) DescribeProject(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("title", req.Title))
	if !types.ValidCategory(req.Category) {
		c.Add(&validation.ValidationError{Field: "category", Message: "unknown project category"})
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	description, err := h.writer.Describe(r.Context(), req.Title, req.Category)
	if err != nil {
		if errors.Is(err, copywriter.ErrUnavailable) {
			WriteProblem(w, r, http.StatusServiceUnavailable, "Description generation not configured")
			return
		}
		WriteProblem(w, r, http.StatusServiceUnavailable, "Description generation failed")
		return
	}

	writeJSON(w, http.StatusOK, describeResponse{Description: description})
}
