// Package middleware provides the HTTP edge: session gating, request
// logging, and metrics. The session check here is deliberately shallow
// (cookie presence + signature validity); per-resource scoping happens
// downstream in pkg/policy and the handlers.
package middleware

import (
	"net/http"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/contextkeys"
	"github.com/golexcel/golexcel/pkg/httputil"
)

// LoginPath is where unauthenticated browser navigations are sent
const LoginPath = "/login"

// LandingPath is the authenticated landing view
const LandingPath = "/leads"

// SessionMiddleware verifies the session cookie on protected routes and
// injects the verified claims into the request context.
type SessionMiddleware struct {
	tokens *auth.TokenService
}

// NewSessionMiddleware creates the edge gate
func NewSessionMiddleware(tokens *auth.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// Handler wraps an HTTP handler with the session requirement. Browser
// navigations without a valid session are redirected to the login entry
// point; API requests get a structured 401.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.SessionFromRequest(r)
		if token == "" {
			m.reject(w, r)
			return
		}
		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.reject(w, r)
			return
		}
		ctx := contextkeys.WithValue(r.Context(), contextkeys.SessionKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) reject(w http.ResponseWriter, r *http.Request) {
	if httputil.IsBrowserNavigation(r) {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	httputil.WriteUnauthorized(w, "unauthorized")
}

// RootRedirect serves the root path: authenticated sessions land on the main
// view, everyone else goes to login.
func (m *SessionMiddleware) RootRedirect(w http.ResponseWriter, r *http.Request) {
	token := auth.SessionFromRequest(r)
	if token != "" {
		if _, err := m.tokens.Verify(token); err == nil {
			http.Redirect(w, r, LandingPath, http.StatusFound)
			return
		}
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// SessionFromContext extracts the verified claims placed by Handler.
// Returns nil when the request never passed the gate.
func SessionFromContext(r *http.Request) *auth.SessionClaims {
	claims, ok := contextkeys.Value(r.Context(), contextkeys.SessionKey).(*auth.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
