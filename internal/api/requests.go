package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rfconstrucoes/obra/internal/types"
	"github.com/rfconstrucoes/obra/internal/validation"
)

// CreateBudgetRequest handles POST /api/v1/budget-requests, the public
// contact form. JSON bodies carry the form alone; multipart bodies may
// attach files, which are uploaded and linked from the description.
func (h *Handler) CreateBudgetRequest(w http.ResponseWriter, r *http.Request) {
	var form types.ContactForm
	var attachmentURLs []string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid form: %s", err.Error()))
			return
		}

		form.Name = r.FormValue("name")
		form.Phone = r.FormValue("phone")
		form.Email = r.FormValue("email")
		form.ProjectType = r.FormValue("project_type")
		form.Description = r.FormValue("description")

		if errs := validation.ValidateContactForm(form); len(errs) > 0 {
			WriteProblemWithErrors(w, r, "Submission contains invalid fields", errs)
			return
		}

		// Attachments are uploaded only after the form itself passes.
		for _, header := range r.MultipartForm.File["attachments"] {
			f := openFormFile(header)
			if f == nil {
				continue
			}
			url, err := h.state.UploadFile(r.Context(), f)
			if err != nil {
				MapStoreError(w, r, err)
				return
			}
			attachmentURLs = append(attachmentURLs, url)
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
			return
		}

		if errs := validation.ValidateContactForm(form); len(errs) > 0 {
			WriteProblemWithErrors(w, r, "Submission contains invalid fields", errs)
			return
		}
	}

	stored, err := h.state.CreateBudgetRequest(r.Context(), form, attachmentURLs)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": stored.ID})
}

// ListBudgetRequests handles GET /api/v1/admin/budget-requests.
func (h *Handler) ListBudgetRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.BudgetRequests())
}

type updateRequestStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBudgetRequestStatus handles PATCH /api/v1/admin/budget-requests/{id}/status.
func (h *Handler) UpdateBudgetRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req updateRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if !types.ValidRequestStatus(req.Status) {
		WriteProblemWithErrors(w, r, "Invalid status", []validation.ValidationError{
			{Field: "status", Message: fmt.Sprintf("must be one of: %s, %s", types.RequestPending, types.RequestContacted)},
		})
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.state.UpdateBudgetRequestStatus(r.Context(), id, types.RequestStatus(req.Status)); err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBudgetRequest handles DELETE /api/v1/admin/budget-requests/{id}.
func (h *Handler) DeleteBudgetRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.state.DeleteBudgetRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllBudgetRequests handles DELETE /api/v1/admin/budget-requests.
func (h *Handler) DeleteAllBudgetRequests(w http.ResponseWriter, r *http.Request) {
	if err := h.state.DeleteAllBudgetRequests(r.Context()); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
