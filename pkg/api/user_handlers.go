package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/store"
)

// UserHandlers serves account management. Listing is open to any session so
// assignment pickers can render names; mutation is SUPER_ADMIN only.
type UserHandlers struct {
	users  UserStore
	creds  *auth.CredentialStore
	engine *policy.Engine
}

// List returns all accounts, newest first
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	users, err := h.users.List(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list users")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, users)
}

type createUserRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Role        model.Role `json:"role"`
	WorkspaceID string     `json:"workspace_id"`
	Permissions []string   `json:"permissions"`
}

// Create adds an account; SUPER_ADMIN only
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !h.engine.CanManageUsers(sess) {
		httputil.WriteForbidden(w, "access denied")
		return
	}

	var req createUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}
	if !req.Role.Valid() {
		httputil.WriteValidationError(w, "invalid role")
		return
	}

	hash, err := h.creds.HashPassword(req.Password)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to hash password")
		httputil.WriteInternalError(w)
		return
	}

	created, err := h.users.Create(r.Context(), &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		WorkspaceID:  req.WorkspaceID,
		Permissions:  req.Permissions,
	})
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to create user")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteCreated(w, created)
}

type updateUserRequest struct {
	Name        *string     `json:"name"`
	Email       *string     `json:"email"`
	Role        *model.Role `json:"role"`
	Permissions []string    `json:"permissions"`
	Password    *string     `json:"password"`
}

// Update applies an admin edit to an account; SUPER_ADMIN only
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !h.engine.CanManageUsers(sess) {
		httputil.WriteForbidden(w, "access denied")
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		httputil.WriteValidationError(w, "invalid role")
		return
	}

	upd := store.UserUpdate{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Permissions: req.Permissions,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := h.creds.HashPassword(*req.Password)
		if err != nil {
			observability.FromContext(r.Context()).WithError(err).Error("failed to hash password")
			httputil.WriteInternalError(w)
			return
		}
		upd.PasswordHash = &hash
	}

	updated, err := h.users.Update(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to update user")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// Delete removes an account. Self-deletion is rejected for every role before
// the SUPER_ADMIN gate, so admins deleting themselves get the explicit error.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.engine.CanDeleteUser(sess, id); err != nil {
		if errors.Is(err, policy.ErrSelfDelete) {
			httputil.WriteValidationError(w, err.Error())
			return
		}
		httputil.WriteForbidden(w, "access denied")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to delete user")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, map[string]bool{"success": true})
}
