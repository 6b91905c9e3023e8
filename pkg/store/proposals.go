package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/golexcel/golexcel/pkg/model"
)

// ProposalStore persists saved proposal templates per workspace
type ProposalStore struct {
	db *DB
}

// NewProposalStore creates a proposal template store
func NewProposalStore(db *DB) *ProposalStore {
	return &ProposalStore{db: db}
}

// ListByWorkspace returns a workspace's saved templates, newest first
func (s *ProposalStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.ProposalTemplate, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT id, name, content, prompt, workspace_id, created_at
		FROM proposal_templates WHERE workspace_id = ? ORDER BY created_at DESC
	`), workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposal templates: %w", err)
	}
	defer rows.Close()

	templates := []*model.ProposalTemplate{}
	for rows.Next() {
		t := &model.ProposalTemplate{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Content, &t.Prompt, &t.WorkspaceID, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Create saves a generated template
func (s *ProposalStore) Create(ctx context.Context, t *model.ProposalTemplate) (*model.ProposalTemplate, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO proposal_templates (id, name, content, prompt, workspace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), t.ID, t.Name, t.Content, t.Prompt, t.WorkspaceID, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal template: %w", err)
	}
	return t, nil
}
