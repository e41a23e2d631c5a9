package api

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rfconstrucoes/obra/internal/storage"
	"github.com/rfconstrucoes/obra/internal/types"
	"github.com/rfconstrucoes/obra/internal/validation"
)

// ListProjects handles GET /api/v1/projects. The public portfolio and
// ongoing pages filter by status and category.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")

	projects := h.state.Projects()
	out := make([]types.Project, 0, len(projects))
	for _, p := range projects {
		if status != "" && string(p.Status) != status {
			continue
		}
		if category != "" && string(p.Category) != category {
			continue
		}
		out = append(out, p)
	}

	writeJSON(w, http.StatusOK, out)
}

// CreateProject handles POST /api/v1/admin/projects. The form carries
// the project fields plus an optional cover file and gallery files,
// which are uploaded before the row is written.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	p, cover, gallery, ok := h.parseProjectForm(w, r)
	if !ok {
		return
	}

	if errs := validation.ValidateProject(p); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Project contains invalid fields", errs)
		return
	}

	stored, err := h.state.AddProject(r.Context(), p, cover, gallery)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// UpdateProject handles PUT /api/v1/admin/projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	p, cover, gallery, ok := h.parseProjectForm(w, r)
	if !ok {
		return
	}
	p.ID = chi.URLParam(r, "id")

	if errs := validation.ValidateProject(p); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Project contains invalid fields", errs)
		return
	}

	stored, err := h.state.UpdateProject(r.Context(), p, cover, gallery)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// DeleteProject handles DELETE /api/v1/admin/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.state.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseProjectForm decodes the multipart project form. On failure it
// writes the problem response and returns ok=false.
func (h *Handler) parseProjectForm(w http.ResponseWriter, r *http.Request) (types.Project, *storage.File, []*storage.File, bool) {
	var p types.Project

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid form: %s", err.Error()))
		return p, nil, nil, false
	}

	p.Title = r.FormValue("title")
	p.Description = r.FormValue("description")
	p.Category = types.ProjectCategory(r.FormValue("category"))
	p.Status = types.ProjectStatus(r.FormValue("status"))
	p.ImageURL = r.FormValue("image_url")
	p.StartDate = r.FormValue("start_date")
	p.CompletionDate = r.FormValue("completion_date")
	p.VideoURL = r.FormValue("video_url")

	if v := r.FormValue("progress"); v != "" {
		progress, err := strconv.Atoi(v)
		if err != nil {
			WriteProblem(w, r, http.StatusBadRequest, "Invalid progress value")
			return p, nil, nil, false
		}
		p.Progress = progress
	}

	// Retained gallery items arrive as a JSON array; order is preserved.
	if v := r.FormValue("gallery"); v != "" {
		if err := json.Unmarshal([]byte(v), &p.Gallery); err != nil {
			WriteProblem(w, r, http.StatusBadRequest, "Invalid gallery JSON")
			return p, nil, nil, false
		}
	}

	cover := formFile(r, "cover")
	var gallery []*storage.File
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["gallery_files"] {
			if f := openFormFile(header); f != nil {
				gallery = append(gallery, f)
			}
		}
	}

	return p, cover, gallery, true
}

// formFile returns the named upload, or nil when absent.
func formFile(r *http.Request, field string) *storage.File {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil
	}
	return openFormFile(r.MultipartForm.File[field][0])
}

func openFormFile(header *multipart.FileHeader) *storage.File {
	f, err := header.Open()
	if err != nil {
		return nil
	}
	return &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	}
}
