package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/store"
)

// SettingsHandlers serves self-service profile edits
type SettingsHandlers struct {
	users UserStore
	creds *auth.CredentialStore
}

type updateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

// UpdateProfile edits the session user's own profile. A password change
// requires the current password; a mismatch changes nothing.
func (h *SettingsHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	upd := store.UserUpdate{Name: req.Name, Email: req.Email}

	if req.NewPassword != "" {
		user, err := h.users.GetByID(r.Context(), sess.ID)
		if err != nil {
			observability.FromContext(r.Context()).WithError(err).Error("failed to load user for profile update")
			httputil.WriteInternalError(w)
			return
		}
		if !h.creds.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
			httputil.WriteValidationError(w, "Current password is incorrect")
			return
		}
		hash, err := h.creds.HashPassword(req.NewPassword)
		if err != nil {
			observability.FromContext(r.Context()).WithError(err).Error("failed to hash password")
			httputil.WriteInternalError(w)
			return
		}
		upd.PasswordHash = &hash
	}

	updated, err := h.users.Update(r.Context(), sess.ID, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to update profile")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, updated)
}
