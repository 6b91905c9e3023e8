// Package auth implements the session and credential layer of the Golexcel CRM.
//
// # Overview
//
// Authentication is cookie-based: a successful login issues a compact signed
// session token (HS256 JWT) carrying the caller's identity, role, workspace,
// and permission claims, delivered in an HttpOnly cookie. Every protected
// request verifies that token; authorization decisions downstream are made by
// pkg/policy from the verified claims only.
//
// # Session Tokens
//
// Issue and verify:
//
//	svc := auth.NewTokenService(secret)
//	token, err := svc.Issue(&auth.SessionClaims{
//		ID:          user.ID,
//		Email:       user.Email,
//		Name:        user.Name,
//		Role:        user.Role,
//		WorkspaceID: user.WorkspaceID,
//		Permissions: user.Permissions,
//	})
//
//	claims, err := svc.Verify(token)
//	// err != nil for malformed, tampered, or expired tokens; claims is nil.
//
// Tokens expire 24 hours after issuance. There is no server-side revocation
// list: logout clears the cookie on the client, but a stolen token stays valid
// until natural expiry. Known limitation, accepted for now.
//
// # Credentials
//
// Passwords are stored as bcrypt hashes (cost 12 for newly set passwords) and
// compared with bcrypt's constant-time comparison:
//
//	store := auth.NewCredentialStore()
//	if !store.VerifyPassword(plaintext, user.PasswordHash) {
//		return errors.New("invalid credentials")
//	}
//
// Seeded migration accounts carry a placeholder hash with a fixed prefix; for
// those accounts only, a single well-known fallback password is accepted.
// Security debt to remove once real hashes are set everywhere.
//
// # Related Packages
//
//   - pkg/policy: role/workspace scoping decisions from SessionClaims
//   - pkg/middleware: session cookie extraction and the edge gate
//   - pkg/api: login/logout handlers
package auth
