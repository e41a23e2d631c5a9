package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rfconstrucoes/obra/internal/types"
	"github.com/rfconstrucoes/obra/internal/validation"
)

// GetSettings handles GET /api/v1/admin/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.state.Settings()
	if settings == nil {
		WriteProblem(w, r, http.StatusNotFound, "Settings not configured")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type updateSettingsRequest struct {
	NotificationEmail string `json:"notification_email"`
	RelayAccessKey    string `json:"relay_access_key"`
	LogoURL           string `json:"logo_url,omitempty"`
}

// UpdateSettings handles PUT /api/v1/admin/settings. The notification
// address and relay access key are deliberately separate fields.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	if req.NotificationEmail != "" {
		c.Add(validation.ValidateEmail("notification_email", req.NotificationEmail))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Settings contain invalid fields", c.Errors())
		return
	}

	stored, err := h.state.UpdateSettings(r.Context(), types.AppSettings{
		NotificationEmail: req.NotificationEmail,
		RelayAccessKey:    req.RelayAccessKey,
		LogoURL:           req.LogoURL,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

type testNotificationRequest struct {
	Email string `json:"email"`
}

// SendTestNotification handles POST /api/v1/admin/settings/test. Unlike
// the notifications that accompany entity writes, the failure of a test
// send is surfaced so the admin can fix the relay configuration.
func (h *Handler) SendTestNotification(w http.ResponseWriter, r *http.Request) {
	var req testNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := validation.ValidateEmail("email", req.Email); err != nil {
		WriteProblemWithErrors(w, r, "Invalid address", []validation.ValidationError{*err})
		return
	}

	if err := h.state.SendTest(r.Context(), req.Email); err != nil {
		WriteProblem(w, r, http.StatusServiceUnavailable, "Notification relay unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
