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

// LeadStore persists leads. Every read takes a policy.Scope; every status
// mutation appends an activity log row in the same transaction.
type LeadStore struct {
	db *DB
}

// NewLeadStore creates a lead store
func NewLeadStore(db *DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadColumns = `l.id, l.name, l.email, l.phone, l.company, l.title, l.industry, l.state,
	l.linkedin, l.website, l.mobile, l.status, l.source, l.notes, l.deal_value,
	l.workspace_id, l.project_id, l.assigned_agent_id, l.created_at`

func scanLead(row interface{ Scan(...interface{}) error }) (*model.Lead, error) {
	l := &model.Lead{}
	var agentID sql.NullString
	var agentName, agentEmail sql.NullString
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Title, &l.Industry, &l.State,
		&l.LinkedIn, &l.Website, &l.Mobile, &l.Status, &l.Source, &l.Notes, &l.DealValue,
		&l.WorkspaceID, &l.ProjectID, &agentID, &l.CreatedAt,
		&agentName, &agentEmail,
	)
	if err != nil {
		return nil, err
	}
	l.AssignedAgentID = agentID.String
	if agentName.Valid {
		l.AssignedAgent = &model.UserRef{Name: agentName.String, Email: agentEmail.String}
	}
	return l, nil
}

// ListFilter narrows a scoped lead listing further; both fields optional
type ListFilter struct {
	ProjectID string
}

// List returns leads visible under the scope, newest first, with the assigned
// agent joined in for display.
func (s *LeadStore) List(ctx context.Context, scope policy.Scope, filter ListFilter) ([]*model.Lead, error) {
	query := `SELECT ` + leadColumns + `, u.name, u.email
		FROM leads l
		LEFT JOIN users u ON u.id = l.assigned_agent_id`

	where := ""
	args := []interface{}{}
	if clause, clauseArgs := leadScopeClause(scope); clause != "" {
		where = clause
		args = append(args, clauseArgs...)
	}
	if filter.ProjectID != "" {
		if where != "" {
			where += " AND "
		}
		where += "l.project_id = ?"
		args = append(args, filter.ProjectID)
	}
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY l.created_at DESC`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []*model.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Get fetches a single lead visible under the scope. A lead outside the scope
// reads as not found.
func (s *LeadStore) Get(ctx context.Context, scope policy.Scope, id string) (*model.Lead, error) {
	query := `SELECT ` + leadColumns + `, u.name, u.email
		FROM leads l
		LEFT JOIN users u ON u.id = l.assigned_agent_id
		WHERE l.id = ?`
	args := []interface{}{id}
	if clause, clauseArgs := leadScopeClause(scope); clause != "" {
		query += ` AND ` + clause
		args = append(args, clauseArgs...)
	}

	l, err := scanLead(s.db.QueryRowContext(ctx, s.db.Rebind(query), args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return l, err
}

// Create inserts a lead and its creation activity entry in one transaction.
// The acting user comes from the verified session, never from the request
// body.
func (s *LeadStore) Create(ctx context.Context, l *model.Lead, actorID string) (*model.Lead, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin lead create: %w", err)
	}
	defer tx.Rollback()

	var agentID interface{}
	if l.AssignedAgentID != "" {
		agentID = l.AssignedAgentID
	}
	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO leads (id, name, email, phone, company, title, industry, state,
			linkedin, website, mobile, status, source, notes, deal_value,
			workspace_id, project_id, assigned_agent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), l.ID, l.Name, l.Email, l.Phone, l.Company, l.Title, l.Industry, l.State,
		l.LinkedIn, l.Website, l.Mobile, l.Status, l.Source, l.Notes, l.DealValue,
		l.WorkspaceID, l.ProjectID, agentID, l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	if err := appendActivityTx(ctx, tx, s.db, &model.ActivityLog{
		LeadID:    l.ID,
		UserID:    actorID,
		Action:    model.ActivityCreated,
		NewStatus: model.LeadStatusFollowUp,
		Details:   "Lead created manually",
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lead create: %w", err)
	}
	return l, nil
}

// LeadUpdate carries the mutable lead fields; nil pointers are untouched.
// Concurrent updates are last-write-wins: there is no version check.
type LeadUpdate struct {
	Name            *string
	Email           *string
	Phone           *string
	Company         *string
	Notes           *string
	Source          *string
	DealValue       *float64
	Status          *string
	AssignedAgentID *string
}

// Update applies a scoped lead edit. A status change appends a
// STATUS_CHANGED activity entry in the same transaction.
func (s *LeadStore) Update(ctx context.Context, scope policy.Scope, id string, upd LeadUpdate, actorID string) (*model.Lead, error) {
	current, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin lead update: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE leads SET id = id`
	args := []interface{}{}
	set := func(col string, v interface{}) {
		query += `, ` + col + ` = ?`
		args = append(args, v)
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Email != nil {
		set("email", *upd.Email)
	}
	if upd.Phone != nil {
		set("phone", *upd.Phone)
	}
	if upd.Company != nil {
		set("company", *upd.Company)
	}
	if upd.Notes != nil {
		set("notes", *upd.Notes)
	}
	if upd.Source != nil {
		set("source", *upd.Source)
	}
	if upd.DealValue != nil {
		set("deal_value", *upd.DealValue)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.AssignedAgentID != nil {
		if *upd.AssignedAgentID == "" {
			set("assigned_agent_id", nil)
		} else {
			set("assigned_agent_id", *upd.AssignedAgentID)
		}
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	if _, err := tx.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	if upd.Status != nil && *upd.Status != current.Status {
		if err := appendActivityTx(ctx, tx, s.db, &model.ActivityLog{
			LeadID:         id,
			UserID:         actorID,
			Action:         model.ActivityStatusChanged,
			PreviousStatus: current.Status,
			NewStatus:      *upd.Status,
			Details:        fmt.Sprintf("Status changed from %s to %s", current.Status, *upd.Status),
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lead update: %w", err)
	}
	return s.Get(ctx, scope, id)
}

// Delete removes a lead visible under the scope
func (s *LeadStore) Delete(ctx context.Context, scope policy.Scope, id string) error {
	// Scope check through Get so out-of-scope deletes surface as not found
	// rather than silently deleting nothing.
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM leads WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

// CountByStatus groups scoped leads by status for reports
func (s *LeadStore) CountByStatus(ctx context.Context, scope policy.Scope) (map[string]int, error) {
	query := `SELECT l.status, COUNT(*) FROM leads l`
	clause, args := leadScopeClause(scope)
	if clause != "" {
		query += ` WHERE ` + clause
	}
	query += ` GROUP BY l.status`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by status: %w", err)
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
