package api

import (
	"errors"
	"net/http"

	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/proposals"
)

// ProposalHandlers serves proposal generation and saved templates
type ProposalHandlers struct {
	proposals ProposalStore
	generator proposals.TextGenerator
	engine    *policy.Engine
}

// List returns the session workspace's saved templates
func (h *ProposalHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, false)
	if err != nil {
		if errors.Is(err, policy.ErrNoWorkspace) {
			httputil.WriteSuccess(w, []*model.ProposalTemplate{})
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace")
		httputil.WriteInternalError(w)
		return
	}
	if workspaceID == "" {
		httputil.WriteSuccess(w, []*model.ProposalTemplate{})
		return
	}

	templates, err := h.proposals.ListByWorkspace(r.Context(), workspaceID)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list proposal templates")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, templates)
}

type generateProposalRequest struct {
	Prompt string `json:"prompt"`
}

// Generate produces proposal text from a prompt without saving it
func (h *ProposalHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var req generateProposalRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Prompt, "prompt") {
		return
	}

	content, err := h.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("proposal generation failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, map[string]string{"content": content})
}

type createProposalRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Prompt  string `json:"prompt"`
}

// Create saves generated proposal text as a reusable template
func (h *ProposalHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req createProposalRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Content, "content") {
		return
	}

	workspaceID, err := h.engine.ResolveWorkspace(r.Context(), sess, true)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to resolve workspace for proposal")
		httputil.WriteInternalError(w)
		return
	}

	created, err := h.proposals.Create(r.Context(), &model.ProposalTemplate{
		Name:        req.Name,
		Content:     req.Content,
		Prompt:      req.Prompt,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to save proposal template")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteCreated(w, created)
}
