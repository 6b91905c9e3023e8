package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/golexcel/golexcel/pkg/model"
)

// ErrNotFound is returned when a scoped lookup matches no row
var ErrNotFound = errors.New("not found")

// UserStore persists user accounts. Permission lists are decoded from their
// stored string form here, once, at the repository boundary.
type UserStore struct {
	db *DB
}

// NewUserStore creates a user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, email, password_hash, role, workspace_id, permissions, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	u := &model.User{}
	var wsID sql.NullString
	var perms string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &wsID, &perms, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.WorkspaceID = wsID.String
	u.Permissions = model.DecodePermissions(perms)
	return u, nil
}

// Create inserts a new user account
func (s *UserStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	var wsID interface{}
	if u.WorkspaceID != "" {
		wsID = u.WorkspaceID
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (id, name, email, password_hash, role, workspace_id, permissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), u.ID, u.Name, u.Email, u.PasswordHash, u.Role, wsID, model.EncodePermissions(u.Permissions), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByEmail fetches a user by unique email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by ID
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// List returns all users, newest first. User listing is not workspace-scoped;
// write access is gated separately by the policy engine.
func (s *UserStore) List(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserUpdate carries the admin-editable fields; nil pointers are left as-is
type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *model.Role
	Permissions  []string
	PasswordHash *string
}

// Update applies an admin edit to a user row
func (s *UserStore) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	query := `UPDATE users SET updated_at = ?`
	args := []interface{}{time.Now().UTC()}

	if upd.Name != nil {
		query += `, name = ?`
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		query += `, email = ?`
		args = append(args, *upd.Email)
	}
	if upd.Role != nil {
		query += `, role = ?`
		args = append(args, *upd.Role)
	}
	if upd.Permissions != nil {
		query += `, permissions = ?`
		args = append(args, model.EncodePermissions(upd.Permissions))
	}
	if upd.PasswordHash != nil {
		query += `, password_hash = ?`
		args = append(args, *upd.PasswordHash)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a user account. The self-delete check happens in the policy
// engine before this is ever reached.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
