package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/contextkeys"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/store"
)

// muxSetVars attaches path variables the way the router would
func muxSetVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}

// withSession injects verified claims the way the session middleware does
func withSession(r *http.Request, sess *auth.SessionClaims) *http.Request {
	ctx := contextkeys.WithValue(r.Context(), contextkeys.SessionKey, sess)
	return r.WithContext(ctx)
}

func agentSession(id string) *auth.SessionClaims {
	return &auth.SessionClaims{ID: id, Email: id + "@example.com", Name: "Agent", Role: model.RoleAgent, WorkspaceID: "ws1"}
}

func adminSession(id string) *auth.SessionClaims {
	return &auth.SessionClaims{ID: id, Email: id + "@example.com", Name: "Admin", Role: model.RoleAdmin, WorkspaceID: "ws1"}
}

func superAdminSession(id string) *auth.SessionClaims {
	return &auth.SessionClaims{ID: id, Email: id + "@example.com", Name: "Root", Role: model.RoleSuperAdmin}
}

// fakeDirectory backs the policy engine in handler tests
type fakeDirectory struct {
	userWorkspace  string
	firstWorkspace string
	defaultWS      string
}

func (d *fakeDirectory) UserWorkspaceID(context.Context, string) (string, error) {
	return d.userWorkspace, nil
}

func (d *fakeDirectory) FirstWorkspaceForUser(context.Context, string) (string, error) {
	return d.firstWorkspace, nil
}

func (d *fakeDirectory) FindOrCreateDefaultWorkspace(context.Context, string) (string, error) {
	if d.defaultWS == "" {
		return "ws-default", nil
	}
	return d.defaultWS, nil
}

func testEngine() *policy.Engine {
	return policy.NewEngine(&fakeDirectory{})
}

type fakeUsers struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User

	created *model.User
	updated map[string]store.UserUpdate
	deleted []string
	listErr error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{
		byEmail: map[string]*model.User{},
		byID:    map[string]*model.User{},
		updated: map[string]store.UserUpdate{},
	}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(context.Context) ([]*model.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	users := []*model.User{}
	for _, u := range f.byID {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	u.ID = "new-user"
	f.created = u
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, upd store.UserUpdate) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	f.updated[id] = upd
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLeads struct {
	leads  map[string]*model.Lead
	counts map[string]int

	lastScope  policy.Scope
	lastFilter store.ListFilter
	created    *model.Lead
	updatedID  string
	lastUpdate store.LeadUpdate
	deleted    []string
}

func newFakeLeads(leads ...*model.Lead) *fakeLeads {
	f := &fakeLeads{leads: map[string]*model.Lead{}, counts: map[string]int{}}
	for _, l := range leads {
		f.leads[l.ID] = l
	}
	return f
}

func (f *fakeLeads) List(_ context.Context, scope policy.Scope, filter store.ListFilter) ([]*model.Lead, error) {
	f.lastScope = scope
	f.lastFilter = filter
	out := []*model.Lead{}
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLeads) Get(_ context.Context, scope policy.Scope, id string) (*model.Lead, error) {
	f.lastScope = scope
	l, ok := f.leads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return l, nil
}

func (f *fakeLeads) Create(_ context.Context, l *model.Lead, _ string) (*model.Lead, error) {
	l.ID = "new-lead"
	f.created = l
	return l, nil
}

func (f *fakeLeads) Update(_ context.Context, scope policy.Scope, id string, upd store.LeadUpdate, _ string) (*model.Lead, error) {
	f.lastScope = scope
	l, ok := f.leads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	f.updatedID = id
	f.lastUpdate = upd
	return l, nil
}

func (f *fakeLeads) Delete(_ context.Context, scope policy.Scope, id string) error {
	f.lastScope = scope
	if _, ok := f.leads[id]; !ok {
		return store.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLeads) CountByStatus(_ context.Context, scope policy.Scope) (map[string]int, error) {
	f.lastScope = scope
	return f.counts, nil
}

type fakeProjects struct {
	projects []*model.Project
	stats    []*store.ProjectStats

	lastScope policy.Scope
	created   *model.Project
}

func (f *fakeProjects) List(_ context.Context, scope policy.Scope) ([]*model.Project, error) {
	f.lastScope = scope
	return f.projects, nil
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*model.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProjects) Create(_ context.Context, p *model.Project) (*model.Project, error) {
	p.ID = "new-project"
	f.created = p
	return p, nil
}

func (f *fakeProjects) StatsByProject(_ context.Context, scope policy.Scope) ([]*store.ProjectStats, error) {
	f.lastScope = scope
	return f.stats, nil
}

type fakeActivity struct {
	entries       []*model.ActivityLog
	lastWorkspace string
	lastLimit     int
}

func (f *fakeActivity) Recent(_ context.Context, workspaceID string, limit int) ([]*model.ActivityLog, error) {
	f.lastWorkspace = workspaceID
	f.lastLimit = limit
	return f.entries, nil
}

type fakeSocial struct {
	posts         []*model.SocialPost
	created       *model.SocialPost
	lastWorkspace string
}

func (f *fakeSocial) ListByWorkspace(_ context.Context, workspaceID string) ([]*model.SocialPost, error) {
	f.lastWorkspace = workspaceID
	return f.posts, nil
}

func (f *fakeSocial) Create(_ context.Context, p *model.SocialPost) (*model.SocialPost, error) {
	p.ID = "new-post"
	p.CreatedAt = time.Now().UTC()
	f.created = p
	return p, nil
}

type fakeProposals struct {
	templates     []*model.ProposalTemplate
	created       *model.ProposalTemplate
	lastWorkspace string
}

func (f *fakeProposals) ListByWorkspace(_ context.Context, workspaceID string) ([]*model.ProposalTemplate, error) {
	f.lastWorkspace = workspaceID
	return f.templates, nil
}

func (f *fakeProposals) Create(_ context.Context, t *model.ProposalTemplate) (*model.ProposalTemplate, error) {
	t.ID = "new-template"
	f.created = t
	return t, nil
}
