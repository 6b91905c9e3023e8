package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
)

// ProjectHandlers serves the project resource
type ProjectHandlers struct {
	projects ProjectStore
	engine   *policy.Engine
}

// List returns projects visible to the session
func (h *ProjectHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, false)
	if err != nil {
		if errors.Is(err, policy.ErrNoWorkspace) {
			httputil.WriteSuccess(w, []*model.Project{})
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace")
		httputil.WriteInternalError(w)
		return
	}

	projects, err := h.projects.List(r.Context(), h.engine.ProjectScope(sess, workspaceID))
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list projects")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, projects)
}

type createProjectRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	AssignedUsers []string `json:"assigned_users"`
}

// Create adds a project in the session's workspace; agents cannot create
func (h *ProjectHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if sess.Role == model.RoleAgent {
		httputil.WriteForbidden(w, "access denied")
		return
	}

	var req createProjectRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, true)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace for project create")
		httputil.WriteInternalError(w)
		return
	}

	created, err := h.projects.Create(r.Context(), &model.Project{
		Name:          req.Name,
		Description:   req.Description,
		WorkspaceID:   workspaceID,
		AssignedUsers: req.AssignedUsers,
	})
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to create project")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteCreated(w, created)
}
