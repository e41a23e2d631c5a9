package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login. On success it issues the admin
// session cookie and the data layer refreshes every collection,
// including the ones only admins may read.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	result := h.state.Login(r.Context(), req.Email, req.Password)
	if !result.Success {
		WriteProblem(w, r, http.StatusUnauthorized, result.Error)
		return
	}

	session, _ := h.sessions.Get(r, sessionName)
	session.Values["admin"] = req.Email
	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if err := session.Save(r, w); err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/v1/auth/logout. The budget-request cache is
// cleared along with the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.state.Logout()

	session, _ := h.sessions.Get(r, sessionName)
	session.Options = &sessions.Options{Path: "/", MaxAge: -1}
	if err := session.Save(r, w); err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
