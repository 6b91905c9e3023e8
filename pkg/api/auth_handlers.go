package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/store"
)

// AuthHandlers serves login and logout
type AuthHandlers struct {
	users         UserStore
	creds         *auth.CredentialStore
	tokens        *auth.TokenService
	metrics       *observability.Metrics
	secureCookies bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse deliberately returns only display fields; the session cookie
// carries the full claims.
type loginResponse struct {
	Success bool      `json:"success"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Role model.Role `json:"role"`
}

// Login verifies credentials and delivers a session cookie. Unknown emails
// and wrong passwords are indistinguishable to the client.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteValidationError(w, "Missing credentials")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.observeLogin("failure")
			httputil.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("login lookup failed")
		httputil.WriteInternalError(w)
		return
	}

	if !h.creds.VerifyPassword(req.Password, user.PasswordHash) {
		h.observeLogin("failure")
		httputil.WriteUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(&auth.SessionClaims{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		WorkspaceID: user.WorkspaceID,
		Permissions: user.Permissions,
	})
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to issue session token")
		httputil.WriteInternalError(w)
		return
	}

	auth.SetSessionCookie(w, token, h.secureCookies)
	h.observeLogin("success")
	httputil.WriteSuccess(w, loginResponse{
		Success: true,
		User:    loginUser{ID: user.ID, Name: user.Name, Role: user.Role},
	})
}

// Logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation list.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookies)
	httputil.WriteSuccess(w, map[string]bool{"success": true})
}

func (h *AuthHandlers) observeLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveLogin(outcome)
	}
}
