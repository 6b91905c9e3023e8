package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/golexcel/golexcel/pkg/model"
)

// SessionTTL is the absolute lifetime of an issued session token
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is returned for any token that fails verification:
// malformed, tampered, expired, or signed with a different key. Callers get
// no partial claims.
var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the identity carried by a session token
type SessionClaims struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        model.Role `json:"role"`
	WorkspaceID string     `json:"workspaceId,omitempty"`
	Permissions []string   `json:"permissions"`

	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a symmetric key
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service. The secret must come from
// configuration; it is never hardcoded.
func NewTokenService(secret []byte) *TokenService {
	return &TokenService{
		secret: secret,
		now:    time.Now,
	}
}

// Issue signs claims into a compact token expiring SessionTTL from now
func (s *TokenService) Issue(claims *SessionClaims) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(SessionTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, failing closed. Any bit flip in the
// token invalidates the signature; expiry is checked against the issue-time
// clock.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
