package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/golexcel/golexcel/pkg/model"
)

// ActivityStore reads the append-only lead activity log. Writes happen inside
// lead transactions via appendActivityTx; nothing ever updates or deletes a
// logged row.
type ActivityStore struct {
	db *DB
}

// NewActivityStore creates an activity store
func NewActivityStore(db *DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// appendActivityTx inserts an activity row inside an existing transaction
func appendActivityTx(ctx context.Context, tx *sql.Tx, db *DB, entry *model.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Timestamp = time.Now().UTC()

	_, err := tx.ExecContext(ctx, db.Rebind(`
		INSERT INTO activity_logs (id, lead_id, user_id, action, previous_status, new_status, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), entry.ID, entry.LeadID, entry.UserID, entry.Action,
		entry.PreviousStatus, entry.NewStatus, entry.Details, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// Append records an activity entry outside a lead transaction
func (s *ActivityStore) Append(ctx context.Context, entry *model.ActivityLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin activity append: %w", err)
	}
	defer tx.Rollback()
	if err := appendActivityTx(ctx, tx, s.db, entry); err != nil {
		return err
	}
	return tx.Commit()
}

// Recent returns the latest activity entries for leads in a workspace, with
// lead and actor names joined for display.
func (s *ActivityStore) Recent(ctx context.Context, workspaceID string, limit int) ([]*model.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT a.id, a.lead_id, a.user_id, a.action, a.previous_status, a.new_status,
		       a.details, a.timestamp, l.name, COALESCE(u.name, '')
		FROM activity_logs a
		JOIN leads l ON l.id = a.lead_id
		LEFT JOIN users u ON u.id = a.user_id`
	args := []interface{}{}
	if workspaceID != "" {
		query += ` WHERE l.workspace_id = ?`
		args = append(args, workspaceID)
	}
	query += ` ORDER BY a.timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}
	defer rows.Close()

	entries := []*model.ActivityLog{}
	for rows.Next() {
		e := &model.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.LeadID, &e.UserID, &e.Action, &e.PreviousStatus,
			&e.NewStatus, &e.Details, &e.Timestamp, &e.LeadName, &e.UserName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
