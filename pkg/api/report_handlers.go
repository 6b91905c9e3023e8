package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
)

// recentActivityLimit caps the activity feed on the report view
const recentActivityLimit = 20

// ReportHandlers serves the report summary: lead counts by status plus the
// recent activity feed for the session's workspace.
type ReportHandlers struct {
	leads    LeadStore
	activity ActivityStore
	engine   *policy.Engine
}

type reportSummary struct {
	StatusCounts   map[string]int       `json:"status_counts"`
	RecentActivity []*model.ActivityLog `json:"recent_activity"`
}

// Summary aggregates scoped lead status counts and recent activity
func (h *ReportHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	counts, err := h.leads.CountByStatus(r.Context(), h.engine.LeadScope(sess, ""))
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to count leads")
		httputil.WriteInternalError(w)
		return
	}

	recent := []*model.ActivityLog{}
	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, false)
	switch {
	case errors.Is(err, policy.ErrNoWorkspace):
		// No workspace means no visible activity; counts still apply.
	case err != nil:
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace")
		httputil.WriteInternalError(w)
		return
	default:
		recent, err = h.activity.Recent(r.Context(), workspaceID, recentActivityLimit)
		if err != nil {
			observability.FromContext(r.Context()).WithError(err).Error("failed to list recent activity")
			httputil.WriteInternalError(w)
			return
		}
	}

	httputil.WriteSuccess(w, reportSummary{
		StatusCounts:   counts,
		RecentActivity: recent,
	})
}
