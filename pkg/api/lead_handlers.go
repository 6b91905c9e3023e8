package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/store"
)

// LeadHandlers serves the lead resource. Every read and write goes through a
// policy scope; handlers never build visibility filters themselves.
type LeadHandlers struct {
	leads  LeadStore
	engine *policy.Engine
}

// List returns leads visible to the session, optionally narrowed by
// projectId and the view=mine hint.
func (h *LeadHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	view := httputil.ParseQueryString(r, "view", "")
	scope := h.engine.LeadScope(sess, view)
	filter := store.ListFilter{ProjectID: httputil.ParseQueryString(r, "projectId", "")}

	leads, err := h.leads.List(r.Context(), scope, filter)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list leads")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, leads)
}

type createLeadRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Company         string  `json:"company"`
	Title           string  `json:"title"`
	Industry        string  `json:"industry"`
	State           string  `json:"state"`
	LinkedIn        string  `json:"linkedin"`
	Website         string  `json:"website"`
	Mobile          string  `json:"mobile"`
	Status          string  `json:"status"`
	Source          string  `json:"source"`
	Notes           string  `json:"notes"`
	DealValue       float64 `json:"deal_value"`
	ProjectID       string  `json:"project_id"`
	AssignedAgentID string  `json:"assigned_agent_id"`
}

// Create inserts a lead. Agents always self-assign; the acting user comes
// from the session, not the body.
func (h *LeadHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req createLeadRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.ProjectID, "project_id") {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, true)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace for lead create")
		httputil.WriteInternalError(w)
		return
	}

	status := req.Status
	if status == "" {
		status = model.LeadStatusNotInterested
	}
	source := req.Source
	if source == "" {
		source = "Manual"
	}
	agentID := req.AssignedAgentID
	if sess.Role == model.RoleAgent {
		agentID = sess.ID
	}

	lead := &model.Lead{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Company:         req.Company,
		Title:           req.Title,
		Industry:        req.Industry,
		State:           req.State,
		LinkedIn:        req.LinkedIn,
		Website:         req.Website,
		Mobile:          req.Mobile,
		Status:          status,
		Source:          source,
		Notes:           req.Notes,
		DealValue:       req.DealValue,
		WorkspaceID:     workspaceID,
		ProjectID:       req.ProjectID,
		AssignedAgentID: agentID,
	}

	created, err := h.leads.Create(r.Context(), lead, sess.ID)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to create lead")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteCreated(w, created)
}

// Get fetches a single lead; out-of-scope leads read as not found
func (h *LeadHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	lead, err := h.leads.Get(r.Context(), h.engine.LeadScope(sess, ""), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Lead not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to get lead")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, lead)
}

type updateLeadRequest struct {
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Company         *string  `json:"company"`
	Notes           *string  `json:"notes"`
	Source          *string  `json:"source"`
	DealValue       *float64 `json:"deal_value"`
	Status          *string  `json:"status"`
	AssignedAgentID *string  `json:"assigned_agent_id"`
}

// Update applies a partial lead edit; absent fields stay untouched
func (h *LeadHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	var req updateLeadRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	upd := store.LeadUpdate{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Company:         req.Company,
		Notes:           req.Notes,
		Source:          req.Source,
		DealValue:       req.DealValue,
		Status:          req.Status,
		AssignedAgentID: req.AssignedAgentID,
	}

	updated, err := h.leads.Update(r.Context(), h.engine.LeadScope(sess, ""), id, upd, sess.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Lead not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to update lead")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// Delete removes a lead visible to the session
func (h *LeadHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.leads.Delete(r.Context(), h.engine.LeadScope(sess, ""), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Lead not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to delete lead")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, map[string]bool{"success": true})
}
