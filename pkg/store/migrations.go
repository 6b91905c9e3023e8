package store

import (
	"context"
	"fmt"
)

// Migration is one schema step, applied in version order
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the full schema history. Statements stick to the SQL
// subset both sqlite and postgres accept.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create workspaces table",
			SQL: `
				CREATE TABLE IF NOT EXISTS workspaces (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_workspaces_name ON workspaces(name);
			`,
		},
		{
			Version:     2,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					email TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					role TEXT NOT NULL,
					workspace_id TEXT,
					permissions TEXT NOT NULL DEFAULT '[]',
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_users_workspace_id ON users(workspace_id);
				CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			`,
		},
		{
			Version:     3,
			Description: "Create projects and project_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS projects (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					workspace_id TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_projects_workspace_id ON projects(workspace_id);

				CREATE TABLE IF NOT EXISTS project_members (
					project_id TEXT NOT NULL,
					user_id TEXT NOT NULL,
					PRIMARY KEY (project_id, user_id)
				);
				CREATE INDEX IF NOT EXISTS idx_project_members_user_id ON project_members(user_id);
			`,
		},
		{
			Version:     4,
			Description: "Create leads table",
			SQL: `
				CREATE TABLE IF NOT EXISTS leads (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					email TEXT NOT NULL DEFAULT '',
					phone TEXT NOT NULL DEFAULT '',
					company TEXT NOT NULL DEFAULT '',
					title TEXT NOT NULL DEFAULT '',
					industry TEXT NOT NULL DEFAULT '',
					state TEXT NOT NULL DEFAULT '',
					linkedin TEXT NOT NULL DEFAULT '',
					website TEXT NOT NULL DEFAULT '',
					mobile TEXT NOT NULL DEFAULT '',
					status TEXT NOT NULL,
					source TEXT NOT NULL DEFAULT '',
					notes TEXT NOT NULL DEFAULT '',
					deal_value DOUBLE PRECISION NOT NULL DEFAULT 0,
					workspace_id TEXT NOT NULL,
					project_id TEXT NOT NULL,
					assigned_agent_id TEXT,
					created_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_leads_workspace_id ON leads(workspace_id);
				CREATE INDEX IF NOT EXISTS idx_leads_project_id ON leads(project_id);
				CREATE INDEX IF NOT EXISTS idx_leads_assigned_agent_id ON leads(assigned_agent_id);
				CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
			`,
		},
		{
			Version:     5,
			Description: "Create activity_logs table",
			SQL: `
				CREATE TABLE IF NOT EXISTS activity_logs (
					id TEXT PRIMARY KEY,
					lead_id TEXT NOT NULL,
					user_id TEXT NOT NULL,
					action TEXT NOT NULL,
					previous_status TEXT NOT NULL DEFAULT '',
					new_status TEXT NOT NULL DEFAULT '',
					details TEXT NOT NULL DEFAULT '',
					timestamp TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_activity_logs_lead_id ON activity_logs(lead_id);
				CREATE INDEX IF NOT EXISTS idx_activity_logs_timestamp ON activity_logs(timestamp);
			`,
		},
		{
			Version:     6,
			Description: "Create proposal_templates table",
			SQL: `
				CREATE TABLE IF NOT EXISTS proposal_templates (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					content TEXT NOT NULL,
					prompt TEXT NOT NULL DEFAULT '',
					workspace_id TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_proposal_templates_workspace_id ON proposal_templates(workspace_id);
			`,
		},
		{
			Version:     7,
			Description: "Create social_posts table",
			SQL: `
				CREATE TABLE IF NOT EXISTS social_posts (
					id TEXT PRIMARY KEY,
					content TEXT NOT NULL,
					platform TEXT NOT NULL,
					status TEXT NOT NULL,
					scheduled_for TIMESTAMP,
					workspace_id TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_social_posts_workspace_id ON social_posts(workspace_id);
				CREATE INDEX IF NOT EXISTS idx_social_posts_status ON social_posts(status);
			`,
		},
	}
}

// Migrate applies all pending migrations, tracking progress in a
// schema_migrations table.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	row := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range Migrations() {
		if m.Version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx,
			db.Rebind(`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, CURRENT_TIMESTAMP)`),
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
