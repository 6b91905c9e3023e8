package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/proposals"
)

func newProposalHandlers(store *fakeProposals) *ProposalHandlers {
	return &ProposalHandlers{
		proposals: store,
		generator: proposals.NewTemplateGenerator("Golexcel"),
		engine:    testEngine(),
	}
}

func TestProposalGenerate(t *testing.T) {
	h := newProposalHandlers(&fakeProposals{})

	req := withSession(httptest.NewRequest("POST", "/proposals/generate",
		strings.NewReader(`{"prompt":"Website redesign for a dental clinic"}`)), adminSession("admin1"))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	require.Equal(t, 200, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["content"], "Website redesign for a dental clinic")
}

func TestProposalGenerate_MissingPrompt(t *testing.T) {
	h := newProposalHandlers(&fakeProposals{})

	req := withSession(httptest.NewRequest("POST", "/proposals/generate",
		strings.NewReader(`{}`)), adminSession("admin1"))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "prompt is required")
}

func TestProposalCreate_SavesInWorkspace(t *testing.T) {
	store := &fakeProposals{}
	h := newProposalHandlers(store)

	req := withSession(httptest.NewRequest("POST", "/proposals",
		strings.NewReader(`{"name":"Dental pitch","content":"# Proposal","prompt":"dental"}`)),
		adminSession("admin1"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	require.Equal(t, 201, w.Code, w.Body.String())
	require.NotNil(t, store.created)
	assert.Equal(t, "ws1", store.created.WorkspaceID)
	assert.Equal(t, "Dental pitch", store.created.Name)
}

func TestProposalList(t *testing.T) {
	store := &fakeProposals{templates: []*model.ProposalTemplate{{ID: "t1", Name: "Dental pitch"}}}
	h := newProposalHandlers(store)

	req := withSession(httptest.NewRequest("GET", "/proposals", nil), adminSession("admin1"))
	w := httptest.NewRecorder()
	h.List(w, req)

	require.Equal(t, 200, w.Code)
	assert.Equal(t, "ws1", store.lastWorkspace)
	assert.Contains(t, w.Body.String(), "Dental pitch")
}
