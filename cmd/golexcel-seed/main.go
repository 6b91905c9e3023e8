// Command golexcel-seed bootstraps a fresh database: it runs migrations, then
// creates the main workspace and the initial super admin account. Safe to run
// repeatedly; existing rows are left alone.
package main

import (
	"context"
	"os"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/config"
	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/store"
)

const (
	seedWorkspaceName = "Main Workspace"
	seedAdminEmail    = "admin@gmail.com"
	seedAdminName     = "Super Admin"
	seedAdminPassword = "admin123"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.WithError(err).Error("failed to open database")
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.WithError(err).Error("failed to run migrations")
		os.Exit(1)
	}

	if err := seed(ctx, db, logger); err != nil {
		logger.WithError(err).Error("seed failed")
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func seed(ctx context.Context, db *store.DB, logger *observability.Logger) error {
	workspaces := store.NewWorkspaceStore(db)
	users := store.NewUserStore(db)
	creds := auth.NewCredentialStore()

	wsID, err := workspaces.FindOrCreateDefaultWorkspace(ctx, seedWorkspaceName)
	if err != nil {
		return err
	}
	logger.WithField("workspace_id", wsID).Info("workspace ready")

	if existing, err := users.GetByEmail(ctx, seedAdminEmail); err == nil {
		logger.WithField("user_id", existing.ID).Info("super admin already present, skipping")
		return nil
	} else if err != store.ErrNotFound {
		return err
	}

	hash, err := creds.HashSeedPassword(seedAdminPassword)
	if err != nil {
		return err
	}

	admin, err := users.Create(ctx, &model.User{
		Name:         seedAdminName,
		Email:        seedAdminEmail,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
		WorkspaceID:  wsID,
		Permissions:  []string{"all"},
	})
	if err != nil {
		return err
	}
	logger.WithField("user_id", admin.ID).Info("super admin created")
	return nil
}
