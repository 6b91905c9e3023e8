package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
)

// SocialHandlers serves workspace-scoped social posts
type SocialHandlers struct {
	social SocialStore
	engine *policy.Engine
}

// List returns the session workspace's posts, newest first
func (h *SocialHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, false)
	if err != nil {
		if errors.Is(err, policy.ErrNoWorkspace) {
			httputil.WriteSuccess(w, []*model.SocialPost{})
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace")
		httputil.WriteInternalError(w)
		return
	}
	if workspaceID == "" {
		httputil.WriteSuccess(w, []*model.SocialPost{})
		return
	}

	posts, err := h.social.ListByWorkspace(r.Context(), workspaceID)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list social posts")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, posts)
}

type createSocialPostRequest struct {
	Content      string               `json:"content"`
	Platform     model.SocialPlatform `json:"platform"`
	ScheduledFor *time.Time           `json:"scheduled_for"`
}

// Create adds a post. A scheduled time makes it SCHEDULED, otherwise DRAFT.
func (h *SocialHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req createSocialPostRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Content, "content") {
		return
	}
	if !req.Platform.Valid() {
		httputil.WriteValidationError(w, "invalid platform")
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, true)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace for social post")
		httputil.WriteInternalError(w)
		return
	}

	status := model.PostDraft
	if req.ScheduledFor != nil {
		status = model.PostScheduled
	}

	created, err := h.social.Create(r.Context(), &model.SocialPost{
		Content:      req.Content,
		Platform:     req.Platform,
		Status:       status,
		ScheduledFor: req.ScheduledFor,
		WorkspaceID:  workspaceID,
	})
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to create social post")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteCreated(w, created)
}
