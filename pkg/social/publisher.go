// Package social runs the scheduled-post publisher: a cron sweep that flips
// SCHEDULED posts to PUBLISHED once their scheduled time has passed.
package social

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/observability"
)

// Store is the persistence surface the publisher needs
type Store interface {
	DuePosts(ctx context.Context, now time.Time) ([]*model.SocialPost, error)
	MarkPublished(ctx context.Context, id string) error
}

// Publisher sweeps for due posts on a cron schedule
type Publisher struct {
	store  Store
	logger *observability.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewPublisher creates a publisher; call Start to begin sweeping
func NewPublisher(store Store, logger *observability.Logger) *Publisher {
	return &Publisher{
		store:  store,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start schedules the sweep with a cron spec (e.g. "@every 1m")
func (p *Publisher) Start(spec string) error {
	_, err := p.cron.AddFunc(spec, func() {
		defer observability.RecoverPanic(p.logger, "social publish sweep")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		p.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish
func (p *Publisher) Stop(ctx context.Context) error {
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep publishes every post whose scheduled time has passed. Returns the
// number of posts published.
func (p *Publisher) Sweep(ctx context.Context) int {
	due, err := p.store.DuePosts(ctx, p.now())
	if err != nil {
		p.logger.WithError(err).Error("failed to list due social posts")
		return 0
	}

	published := 0
	for _, post := range due {
		if err := p.store.MarkPublished(ctx, post.ID); err != nil {
			p.logger.WithError(err).WithField("post_id", post.ID).Error("failed to publish social post")
			continue
		}
		p.logger.WithField("post_id", post.ID).
			WithField("platform", string(post.Platform)).
			Info("social post published")
		published++
	}
	return published
}
