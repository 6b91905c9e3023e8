package store

import (
	"github.com/golexcel/golexcel/pkg/policy"
)

// leadScopeClause translates a policy scope into a WHERE fragment over the
// leads table (aliased l). Empty fragment means unrestricted.
func leadScopeClause(s policy.Scope) (string, []interface{}) {
	if s.Unrestricted {
		return "", nil
	}
	if s.WorkspaceID != "" {
		return "l.workspace_id = ?", []interface{}{s.WorkspaceID}
	}
	if s.AgentID != "" {
		// Agent OR-scoping: directly assigned leads, or leads whose project
		// lists the agent among its members.
		clause := "(l.assigned_agent_id = ? OR l.project_id IN (SELECT project_id FROM project_members WHERE user_id = ?))"
		return clause, []interface{}{s.AgentID, s.AgentID}
	}
	return "", nil
}

// projectScopeClause translates a policy scope into a WHERE fragment over the
// projects table (aliased p).
func projectScopeClause(s policy.Scope) (string, []interface{}) {
	if s.Unrestricted {
		return "", nil
	}
	if s.WorkspaceID != "" {
		return "p.workspace_id = ?", []interface{}{s.WorkspaceID}
	}
	if s.AgentID != "" {
		clause := "p.id IN (SELECT project_id FROM project_members WHERE user_id = ?)"
		return clause, []interface{}{s.AgentID}
	}
	return "", nil
}
