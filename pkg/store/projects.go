package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/policy"
)

// ProjectStore persists projects and their assigned-user memberships
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a project store
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// Create inserts a project and its initial member assignments in one
// transaction.
func (s *ProjectStore) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin project create: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO projects (id, name, description, workspace_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Description, p.WorkspaceID, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	for _, userID := range p.AssignedUsers {
		_, err = tx.ExecContext(ctx,
			s.db.Rebind(`INSERT INTO project_members (project_id, user_id) VALUES (?, ?)`),
			p.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to assign user to project: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit project create: %w", err)
	}
	return p, nil
}

// GetByID fetches a project with its assigned users
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	p := &model.Project{}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, name, description, workspace_id, created_at FROM projects WHERE id = ?
	`), id).Scan(&p.ID, &p.Name, &p.Description, &p.WorkspaceID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	members, err := s.members(ctx, id)
	if err != nil {
		return nil, err
	}
	p.AssignedUsers = members
	return p, nil
}

// List returns projects visible under the given scope, newest first
func (s *ProjectStore) List(ctx context.Context, scope policy.Scope) ([]*model.Project, error) {
	query := `SELECT p.id, p.name, p.description, p.workspace_id, p.created_at FROM projects p`
	clause, args := projectScopeClause(scope)
	if clause != "" {
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		p := &model.Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.WorkspaceID, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range projects {
		members, err := s.members(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.AssignedUsers = members
	}
	return projects, nil
}

// AssignUser adds a user to a project's assigned set; idempotent
func (s *ProjectStore) AssignUser(ctx context.Context, projectID, userID string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM project_members WHERE project_id = ? AND user_id = ?
	`), projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to reassign project member: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO project_members (project_id, user_id) VALUES (?, ?)`),
		projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to assign project member: %w", err)
	}
	return nil
}

func (s *ProjectStore) members(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind(`SELECT user_id FROM project_members WHERE project_id = ?`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

// ProjectStats is the dashboard aggregate for one project: total leads plus
// counts grouped by status, computed server-side.
type ProjectStats struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	TotalLeads   int            `json:"total_leads"`
	StatusCounts map[string]int `json:"status_counts"`
	CreatedAt    time.Time      `json:"created_at"`
}

// StatsByProject aggregates per-project lead status counts under the given
// scope, newest project first.
func (s *ProjectStore) StatsByProject(ctx context.Context, scope policy.Scope) ([]*ProjectStats, error) {
	query := `SELECT p.id, p.name, p.description, p.created_at FROM projects p`
	clause, args := projectScopeClause(scope)
	if clause != "" {
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for stats: %w", err)
	}
	defer rows.Close()

	stats := []*ProjectStats{}
	for rows.Next() {
		ps := &ProjectStats{StatusCounts: map[string]int{}}
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Description, &ps.CreatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ps := range stats {
		counts, err := s.leadStatusCounts(ctx, ps.ID)
		if err != nil {
			return nil, err
		}
		for status, n := range counts {
			ps.StatusCounts[status] = n
			ps.TotalLeads += n
		}
	}
	return stats, nil
}

func (s *ProjectStore) leadStatusCounts(ctx context.Context, projectID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT status, COUNT(*) FROM leads WHERE project_id = ? GROUP BY status
	`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lead statuses: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
