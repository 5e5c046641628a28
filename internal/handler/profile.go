package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pantrylabs/trolley/internal/account"
	"github.com/pantrylabs/trolley/internal/auth"
	"github.com/pantrylabs/trolley/internal/model"
	"github.com/pantrylabs/trolley/internal/websocket"
)

type ProfileHandler struct {
	accounts *account.Manager
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewProfileHandler(accounts *account.Manager, hub *websocket.Hub, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, hub: hub, logger: logger}
}

// GetProfile refreshes the signed-in user's profile from the remote resource
// and returns the resulting state. A failed refresh keeps the prior field
// values, so the body is the last known profile plus the failure status.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.accounts.FetchProfile(r.Context(), auth.UserID(r.Context()))
	writeJSON(w, profileStatus(profile), profile)
}

// UpdateProfile applies a partial update on the remote resource. Fields absent
// from the body are left untouched; the response reflects the server's copy.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	profile := h.accounts.UpdateProfile(r.Context(), userID, patch)
	if profile.Status == account.StatusSucceeded && h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("profile", "updated", userID, nil))
	}
	writeJSON(w, profileStatus(profile), profile)
}

func profileStatus(p account.Profile) int {
	if p.Status == account.StatusFailed {
		return http.StatusBadGateway
	}
	return http.StatusOK
}
