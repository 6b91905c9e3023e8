package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/golexcel/golexcel/pkg/model"
)

// WorkspaceStore persists workspaces and implements the policy engine's
// WorkspaceDirectory for fallback resolution.
type WorkspaceStore struct {
	db *DB
}

// NewWorkspaceStore creates a workspace store
func NewWorkspaceStore(db *DB) *WorkspaceStore {
	return &WorkspaceStore{db: db}
}

// Create inserts a new workspace
func (s *WorkspaceStore) Create(ctx context.Context, name string) (*model.Workspace, error) {
	ws := &model.Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO workspaces (id, name, created_at) VALUES (?, ?, ?)`),
		ws.ID, ws.Name, ws.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return ws, nil
}

// GetByID fetches a workspace by ID
func (s *WorkspaceStore) GetByID(ctx context.Context, id string) (*model.Workspace, error) {
	ws := &model.Workspace{}
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT id, name, created_at FROM workspaces WHERE id = ?`), id,
	).Scan(&ws.ID, &ws.Name, &ws.CreatedAt)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// UserWorkspaceID returns the workspace reference stored on the user row
func (s *WorkspaceStore) UserWorkspaceID(ctx context.Context, userID string) (string, error) {
	var wsID sql.NullString
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT workspace_id FROM users WHERE id = ?`), userID,
	).Scan(&wsID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return wsID.String, nil
}

// FirstWorkspaceForUser returns the first workspace containing the user,
// either via the user's own reference or via project membership.
func (s *WorkspaceStore) FirstWorkspaceForUser(ctx context.Context, userID string) (string, error) {
	var wsID string
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT w.id FROM workspaces w
		WHERE EXISTS (SELECT 1 FROM users u WHERE u.workspace_id = w.id AND u.id = ?)
		   OR EXISTS (
			SELECT 1 FROM projects p
			JOIN project_members pm ON pm.project_id = p.id
			WHERE p.workspace_id = w.id AND pm.user_id = ?
		   )
		ORDER BY w.created_at
		LIMIT 1
	`), userID, userID).Scan(&wsID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return wsID, nil
}

// FindOrCreateDefaultWorkspace returns the workspace with the given canonical
// name, creating it when absent. Idempotent under the single-writer sqlite
// setup; concurrent postgres callers may race to create, in which case the
// earliest row wins on subsequent lookups.
func (s *WorkspaceStore) FindOrCreateDefaultWorkspace(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT id FROM workspaces WHERE name = ? ORDER BY created_at LIMIT 1`), name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up default workspace: %w", err)
	}

	ws, err := s.Create(ctx, name)
	if err != nil {
		return "", err
	}
	return ws.ID, nil
}
