// Command golexcel runs the CRM HTTP server: the application API on one port
// and health probes plus metrics on another.
package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/golexcel/golexcel/pkg/api"
	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/config"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/proposals"
	"github.com/golexcel/golexcel/pkg/social"
	"github.com/golexcel/golexcel/pkg/store"
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

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	workspaces := store.NewWorkspaceStore(db)
	engine := policy.NewEngine(workspaces)
	socialStore := store.NewSocialStore(db)

	server := api.NewServer(api.Deps{
		Logger:        logger,
		Metrics:       metrics,
		Tokens:        auth.NewTokenService(cfg.SessionSecret()),
		Credentials:   auth.NewCredentialStore(),
		Engine:        engine,
		Users:         store.NewUserStore(db),
		Leads:         store.NewLeadStore(db),
		Projects:      store.NewProjectStore(db),
		Activity:      store.NewActivityStore(db),
		Social:        socialStore,
		Proposals:     store.NewProposalStore(db),
		Generator:     proposals.NewTemplateGenerator(""),
		SecureCookies: cfg.Session.Production,
	})

	publisher := social.NewPublisher(socialStore, logger)
	if err := publisher.Start(cfg.Social.PublishSpec); err != nil {
		logger.WithError(err).Error("failed to start social publisher")
		os.Exit(1)
	}

	health := observability.NewHealthHandler(metrics)
	health.Register("database", db)

	appServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: health.Routes(),
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.WithField("addr", appServer.Addr).Info("starting API server")
		if err := appServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("starting health server")
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, appServer, healthServer)
	shutdown.Register(publisher.Stop)
	shutdown.Register(func(context.Context) error { return db.Close() })
	shutdown.Wait()

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}
