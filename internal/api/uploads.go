package api

import (
	"fmt"
	"net/http"
)

// UploadFile handles POST /api/v1/admin/uploads: one file in, its
// public URL out.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid form: %s", err.Error()))
		return
	}

	f := formFile(r, "file")
	if f == nil {
		WriteProblem(w, r, http.StatusBadRequest, "Missing file field")
		return
	}

	url, err := h.state.UploadFile(r.Context(), f)
	if err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
