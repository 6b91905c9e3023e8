package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golexcel/golexcel/pkg/model"
)

func TestProjectList_AgentScopedToAssignments(t *testing.T) {
	projects := &fakeProjects{}
	h := &ProjectHandlers{projects: projects, engine: testEngine()}

	req := withSession(httptest.NewRequest("GET", "/projects", nil), agentSession("agent1"))
	w := httptest.NewRecorder()
	h.List(w, req)

	require.Equal(t, 200, w.Code)
	assert.Equal(t, "agent1", projects.lastScope.AgentID)
}

func TestProjectList_AdminWorkspaceScoped(t *testing.T) {
	projects := &fakeProjects{projects: []*model.Project{{ID: "p1", Name: "Q3 Outreach"}}}
	h := &ProjectHandlers{projects: projects, engine: testEngine()}

	req := withSession(httptest.NewRequest("GET", "/projects", nil), adminSession("admin1"))
	w := httptest.NewRecorder()
	h.List(w, req)

	require.Equal(t, 200, w.Code)
	assert.Equal(t, "ws1", projects.lastScope.WorkspaceID)
	assert.Contains(t, w.Body.String(), "Q3 Outreach")
}

func TestProjectCreate_AgentForbidden(t *testing.T) {
	projects := &fakeProjects{}
	h := &ProjectHandlers{projects: projects, engine: testEngine()}

	req := withSession(httptest.NewRequest("POST", "/projects",
		strings.NewReader(`{"name":"New Project"}`)), agentSession("agent1"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, 403, w.Code)
	assert.Nil(t, projects.created)
}

func TestProjectCreate_ResolvesWorkspace(t *testing.T) {
	projects := &fakeProjects{}
	h := &ProjectHandlers{projects: projects, engine: testEngine()}

	req := withSession(httptest.NewRequest("POST", "/projects",
		strings.NewReader(`{"name":"New Project","assigned_users":["agent1","agent2"]}`)),
		adminSession("admin1"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	require.Equal(t, 201, w.Code, w.Body.String())
	require.NotNil(t, projects.created)
	assert.Equal(t, "ws1", projects.created.WorkspaceID)
	assert.Equal(t, []string{"agent1", "agent2"}, projects.created.AssignedUsers)
}

func TestProjectCreate_MissingName(t *testing.T) {
	h := &ProjectHandlers{projects: &fakeProjects{}, engine: testEngine()}

	req := withSession(httptest.NewRequest("POST", "/projects",
		strings.NewReader(`{"description":"no name"}`)), adminSession("admin1"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
}
