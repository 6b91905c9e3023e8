// Package policy is the access decision core: given verified session claims
// and a requested resource, it computes the row-level scope a query may touch,
// or denies outright. Handlers never build visibility filters themselves.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/model"
)

var (
	// ErrDenied means the session's role cannot perform the requested action.
	// Denial is terminal: callers must not downgrade to a narrower scope.
	ErrDenied = errors.New("access denied")

	// ErrSelfDelete is returned when a user tries to delete their own account
	ErrSelfDelete = errors.New("cannot delete yourself")

	// ErrNoWorkspace is returned when a non-super-admin session cannot be
	// resolved to any workspace
	ErrNoWorkspace = errors.New("no workspace found")
)

// ViewMine is the request hint that forces agent-style scoping on lead lists
const ViewMine = "mine"

// DefaultWorkspaceName is the canonical fallback workspace created lazily for
// workspace-scoped writes by sessions that resolve to no workspace
const DefaultWorkspaceName = "Default Workspace"

// Scope is a row-visibility filter computed per request. Exactly one of the
// three shapes applies:
//   - Unrestricted: no filter (SUPER_ADMIN)
//   - WorkspaceID set: rows in that workspace (ADMIN)
//   - AgentID set: rows assigned to that agent OR whose project lists the
//     agent among its assigned users (AGENT / "mine" view)
type Scope struct {
	Unrestricted bool
	WorkspaceID  string
	AgentID      string
}

// WorkspaceDirectory is the store surface the engine needs for workspace
// resolution fallbacks.
type WorkspaceDirectory interface {
	// UserWorkspaceID returns the workspace reference stored on the user row,
	// empty when unset.
	UserWorkspaceID(ctx context.Context, userID string) (string, error)
	// FirstWorkspaceForUser returns the ID of the first workspace containing
	// the user, empty when there is none.
	FirstWorkspaceForUser(ctx context.Context, userID string) (string, error)
	// FindOrCreateDefaultWorkspace returns the canonical default workspace,
	// creating it when absent.
	FindOrCreateDefaultWorkspace(ctx context.Context, name string) (string, error)
}

// Engine makes per-request scoping decisions. Decisions are pure given the
// session; only workspace resolution touches the directory.
type Engine struct {
	dir WorkspaceDirectory
}

// NewEngine creates a policy engine backed by the given directory
func NewEngine(dir WorkspaceDirectory) *Engine {
	return &Engine{dir: dir}
}

// LeadScope computes lead visibility for a session. Explicit role branches
// are checked before the view hint: ADMIN always gets workspace scoping even
// when the request carries view=mine.
func (e *Engine) LeadScope(sess *auth.SessionClaims, view string) Scope {
	if sess.Role == model.RoleAdmin {
		if sess.WorkspaceID != "" {
			return Scope{WorkspaceID: sess.WorkspaceID}
		}
		return Scope{Unrestricted: true}
	}
	if sess.Role == model.RoleAgent || view == ViewMine {
		return Scope{AgentID: sess.ID}
	}
	return Scope{Unrestricted: true}
}

// ProjectScope computes project visibility: SUPER_ADMIN unrestricted, ADMIN
// workspace-bound, AGENT limited to projects they are assigned to.
func (e *Engine) ProjectScope(sess *auth.SessionClaims, workspaceID string) Scope {
	switch sess.Role {
	case model.RoleAdmin:
		if workspaceID != "" {
			return Scope{WorkspaceID: workspaceID}
		}
		return Scope{Unrestricted: true}
	case model.RoleSuperAdmin:
		return Scope{Unrestricted: true}
	default:
		return Scope{AgentID: sess.ID}
	}
}

// CanManageUsers gates user create/update/delete. Independent of permission
// lists: only SUPER_ADMIN manages users.
func (e *Engine) CanManageUsers(sess *auth.SessionClaims) bool {
	return sess != nil && sess.Role == model.RoleSuperAdmin
}

// CanDeleteUser rejects self-deletion for every role before the role gate,
// so a SUPER_ADMIN deleting themself gets the explicit self-delete error.
func (e *Engine) CanDeleteUser(sess *auth.SessionClaims, targetID string) error {
	if sess == nil {
		return ErrDenied
	}
	if targetID == sess.ID {
		return ErrSelfDelete
	}
	if sess.Role != model.RoleSuperAdmin {
		return ErrDenied
	}
	return nil
}

// ResolveWorkspace resolves a usable workspace for the session, in precedence
// order: session claim, stored user reference, first workspace containing the
// user, then (writes only) the canonical default workspace. SUPER_ADMIN reads
// with no workspace resolve to empty, meaning "do not scope". Any other role
// without a resolvable workspace is an error rather than a silent
// workspace-less query.
func (e *Engine) ResolveWorkspace(ctx context.Context, sess *auth.SessionClaims, forWrite bool) (string, error) {
	if sess.WorkspaceID != "" {
		return sess.WorkspaceID, nil
	}

	wsID, err := e.dir.UserWorkspaceID(ctx, sess.ID)
	if err != nil {
		return "", fmt.Errorf("failed to look up user workspace: %w", err)
	}
	if wsID != "" {
		return wsID, nil
	}

	wsID, err = e.dir.FirstWorkspaceForUser(ctx, sess.ID)
	if err != nil {
		return "", fmt.Errorf("failed to look up workspace membership: %w", err)
	}
	if wsID != "" {
		return wsID, nil
	}

	if forWrite {
		wsID, err = e.dir.FindOrCreateDefaultWorkspace(ctx, DefaultWorkspaceName)
		if err != nil {
			return "", fmt.Errorf("failed to resolve default workspace: %w", err)
		}
		return wsID, nil
	}

	if sess.Role == model.RoleSuperAdmin {
		return "", nil
	}
	return "", ErrNoWorkspace
}
