package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golexcel/golexcel/pkg/model"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return Wrap(db, DriverSQLite), mock
}

func userRows(id, name, email, hash, role, ws, perms string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "workspace_id", "permissions", "created_at", "updated_at",
	}).AddRow(id, name, email, hash, role, ws, perms, now, now)
}

func TestUserStore_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("alice@example.com").
		WillReturnRows(userRows("u1", "Alice", "alice@example.com", "$2a$12$hash", "ADMIN", "w1", `["leads:read"]`))

	u, err := s.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "w1", u.WorkspaceID)
	assert.Equal(t, []string{"leads:read"}, u.Permissions, "permissions decoded at the store boundary")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role", "workspace_id", "permissions", "created_at", "updated_at",
		}))

	_, err := s.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)).
		WithArgs("u2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "u2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), "ghost"), ErrNotFound)
}
