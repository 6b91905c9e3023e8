package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/model"
)

// fakeDirectory is an in-memory WorkspaceDirectory for engine tests
type fakeDirectory struct {
	userWorkspace  map[string]string
	firstWorkspace map[string]string
	defaultWsID    string
	createdDefault bool
	err            error
}

func (f *fakeDirectory) UserWorkspaceID(_ context.Context, userID string) (string, error) {
	return f.userWorkspace[userID], f.err
}

func (f *fakeDirectory) FirstWorkspaceForUser(_ context.Context, userID string) (string, error) {
	return f.firstWorkspace[userID], f.err
}

func (f *fakeDirectory) FindOrCreateDefaultWorkspace(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.createdDefault = true
	return f.defaultWsID, nil
}

func session(role model.Role, id, workspaceID string) *auth.SessionClaims {
	return &auth.SessionClaims{ID: id, Role: role, WorkspaceID: workspaceID}
}

func TestLeadScope(t *testing.T) {
	e := NewEngine(&fakeDirectory{})

	tests := []struct {
		name string
		sess *auth.SessionClaims
		view string
		want Scope
	}{
		{
			name: "super admin sees everything",
			sess: session(model.RoleSuperAdmin, "u1", "w1"),
			want: Scope{Unrestricted: true},
		},
		{
			name: "admin bound to own workspace",
			sess: session(model.RoleAdmin, "u1", "w1"),
			want: Scope{WorkspaceID: "w1"},
		},
		{
			name: "admin without workspace claim is unscoped",
			sess: session(model.RoleAdmin, "u1", ""),
			want: Scope{Unrestricted: true},
		},
		{
			name: "agent gets OR scoping on own id",
			sess: session(model.RoleAgent, "u2", "w1"),
			want: Scope{AgentID: "u2"},
		},
		{
			name: "mine view forces agent scoping for super admin",
			sess: session(model.RoleSuperAdmin, "u3", "w1"),
			view: ViewMine,
			want: Scope{AgentID: "u3"},
		},
		{
			name: "admin branch wins over mine view",
			sess: session(model.RoleAdmin, "u1", "w1"),
			view: ViewMine,
			want: Scope{WorkspaceID: "w1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.LeadScope(tt.sess, tt.view))
		})
	}
}

func TestProjectScope(t *testing.T) {
	e := NewEngine(&fakeDirectory{})

	assert.Equal(t, Scope{Unrestricted: true},
		e.ProjectScope(session(model.RoleSuperAdmin, "u1", ""), ""))
	assert.Equal(t, Scope{WorkspaceID: "w1"},
		e.ProjectScope(session(model.RoleAdmin, "u1", "w1"), "w1"))
	assert.Equal(t, Scope{AgentID: "u2"},
		e.ProjectScope(session(model.RoleAgent, "u2", "w1"), "w1"))
}

func TestCanManageUsers(t *testing.T) {
	e := NewEngine(&fakeDirectory{})

	assert.True(t, e.CanManageUsers(session(model.RoleSuperAdmin, "u1", "")))
	assert.False(t, e.CanManageUsers(session(model.RoleAdmin, "u1", "w1")))
	assert.False(t, e.CanManageUsers(session(model.RoleAgent, "u1", "w1")))
	assert.False(t, e.CanManageUsers(nil))
}

// TestCanDeleteUser_SelfDeleteAlwaysFails covers the invariant that no role,
// including SUPER_ADMIN, may delete its own account.
func TestCanDeleteUser_SelfDeleteAlwaysFails(t *testing.T) {
	e := NewEngine(&fakeDirectory{})

	for _, role := range []model.Role{model.RoleSuperAdmin, model.RoleAdmin, model.RoleAgent} {
		err := e.CanDeleteUser(session(role, "u1", "w1"), "u1")
		assert.ErrorIs(t, err, ErrSelfDelete, "role %s", role)
	}
}

func TestCanDeleteUser_RoleGate(t *testing.T) {
	e := NewEngine(&fakeDirectory{})

	assert.NoError(t, e.CanDeleteUser(session(model.RoleSuperAdmin, "u1", ""), "u2"))
	assert.ErrorIs(t, e.CanDeleteUser(session(model.RoleAdmin, "u1", "w1"), "u2"), ErrDenied)
	assert.ErrorIs(t, e.CanDeleteUser(session(model.RoleAgent, "u1", "w1"), "u2"), ErrDenied)
}

func TestResolveWorkspace(t *testing.T) {
	ctx := context.Background()

	t.Run("session claim wins", func(t *testing.T) {
		dir := &fakeDirectory{userWorkspace: map[string]string{"u1": "stored"}}
		e := NewEngine(dir)
		ws, err := e.ResolveWorkspace(ctx, session(model.RoleAdmin, "u1", "claimed"), false)
		require.NoError(t, err)
		assert.Equal(t, "claimed", ws)
	})

	t.Run("falls back to stored reference", func(t *testing.T) {
		dir := &fakeDirectory{userWorkspace: map[string]string{"u1": "stored"}}
		e := NewEngine(dir)
		ws, err := e.ResolveWorkspace(ctx, session(model.RoleAdmin, "u1", ""), false)
		require.NoError(t, err)
		assert.Equal(t, "stored", ws)
	})

	t.Run("falls back to membership lookup", func(t *testing.T) {
		dir := &fakeDirectory{
			userWorkspace:  map[string]string{},
			firstWorkspace: map[string]string{"u1": "member-ws"},
		}
		e := NewEngine(dir)
		ws, err := e.ResolveWorkspace(ctx, session(model.RoleAgent, "u1", ""), false)
		require.NoError(t, err)
		assert.Equal(t, "member-ws", ws)
	})

	t.Run("write creates default workspace", func(t *testing.T) {
		dir := &fakeDirectory{defaultWsID: "default-ws"}
		e := NewEngine(dir)
		ws, err := e.ResolveWorkspace(ctx, session(model.RoleSuperAdmin, "u1", ""), true)
		require.NoError(t, err)
		assert.Equal(t, "default-ws", ws)
		assert.True(t, dir.createdDefault)
	})

	t.Run("super admin read without workspace is unscoped", func(t *testing.T) {
		e := NewEngine(&fakeDirectory{})
		ws, err := e.ResolveWorkspace(ctx, session(model.RoleSuperAdmin, "u1", ""), false)
		require.NoError(t, err)
		assert.Empty(t, ws)
	})

	t.Run("non super admin read without workspace fails", func(t *testing.T) {
		e := NewEngine(&fakeDirectory{})
		_, err := e.ResolveWorkspace(ctx, session(model.RoleAdmin, "u1", ""), false)
		assert.ErrorIs(t, err, ErrNoWorkspace)
	})

	t.Run("directory errors propagate", func(t *testing.T) {
		dir := &fakeDirectory{err: errors.New("db down")}
		e := NewEngine(dir)
		_, err := e.ResolveWorkspace(ctx, session(model.RoleAdmin, "u1", ""), false)
		assert.Error(t, err)
	})
}
