package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/golexcel/golexcel/pkg/model"
)

// SocialStore persists workspace-scoped social posts
type SocialStore struct {
	db *DB
}

// NewSocialStore creates a social post store
func NewSocialStore(db *DB) *SocialStore {
	return &SocialStore{db: db}
}

const socialColumns = `id, content, platform, status, scheduled_for, workspace_id, created_at`

func scanSocialPost(row interface{ Scan(...interface{}) error }) (*model.SocialPost, error) {
	p := &model.SocialPost{}
	var scheduled sql.NullTime
	err := row.Scan(&p.ID, &p.Content, &p.Platform, &p.Status, &scheduled, &p.WorkspaceID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if scheduled.Valid {
		t := scheduled.Time
		p.ScheduledFor = &t
	}
	return p, nil
}

// ListByWorkspace returns a workspace's posts, newest first
func (s *SocialStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.SocialPost, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+socialColumns+` FROM social_posts WHERE workspace_id = ? ORDER BY created_at DESC
	`), workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list social posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.SocialPost{}
	for rows.Next() {
		p, err := scanSocialPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts a post. Posts with a schedule start SCHEDULED, others DRAFT;
// the caller sets the status.
func (s *SocialStore) Create(ctx context.Context, p *model.SocialPost) (*model.SocialPost, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	var scheduled interface{}
	if p.ScheduledFor != nil {
		scheduled = p.ScheduledFor.UTC()
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO social_posts (`+socialColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Content, p.Platform, p.Status, scheduled, p.WorkspaceID, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create social post: %w", err)
	}
	return p, nil
}

// DuePosts returns scheduled posts whose time has passed
func (s *SocialStore) DuePosts(ctx context.Context, now time.Time) ([]*model.SocialPost, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+socialColumns+` FROM social_posts
		WHERE status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?
	`), model.PostScheduled, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.SocialPost{}
	for rows.Next() {
		p, err := scanSocialPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// MarkPublished flips a post to PUBLISHED
func (s *SocialStore) MarkPublished(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE social_posts SET status = ? WHERE id = ?
	`), model.PostPublished, id)
	if err != nil {
		return fmt.Errorf("failed to mark post published: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
