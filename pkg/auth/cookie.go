package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session"

// SetSessionCookie delivers a session token to the client. HttpOnly keeps it
// away from page scripts, SameSite=Lax keeps it off cross-site requests, and
// Secure is set everywhere outside local development.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an already-expired
// one. This invalidates client-side possession immediately; the token itself
// remains verifiable server-side until natural expiry.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest extracts the raw session token from the request cookie.
// Returns empty string when the cookie is absent.
func SessionFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
