package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/store"
)

// DashboardHandlers serves the per-project dashboard aggregates
type DashboardHandlers struct {
	projects ProjectStore
	engine   *policy.Engine
}

type dashboardStats struct {
	Projects      []*store.ProjectStats `json:"projects"`
	TotalProjects int                   `json:"total_projects"`
	TotalLeads    int                   `json:"total_leads"`
}

// Stats returns per-project lead status breakdowns plus overall totals,
// computed server-side under the session's scope.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, false)
	if err != nil {
		if errors.Is(err, policy.ErrNoWorkspace) {
			httputil.WriteSuccess(w, dashboardStats{Projects: []*store.ProjectStats{}})
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace")
		httputil.WriteInternalError(w)
		return
	}

	stats, err := h.projects.StatsByProject(r.Context(), h.engine.ProjectScope(sess, workspaceID))
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to aggregate project stats")
		httputil.WriteInternalError(w)
		return
	}

	out := dashboardStats{Projects: stats, TotalProjects: len(stats)}
	for _, ps := range stats {
		out.TotalLeads += ps.TotalLeads
	}
	httputil.WriteSuccess(w, out)
}
