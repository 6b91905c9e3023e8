package api

import (
	"context"

	"github.com/golexcel/golexcel/pkg/model"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/store"
)

// The handler layer depends on these narrow store surfaces rather than the
// concrete repositories, so handler tests can substitute fakes.

// UserStore is the account surface the handlers need
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, id string, upd store.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// LeadStore is the scoped lead surface
type LeadStore interface {
	List(ctx context.Context, scope policy.Scope, filter store.ListFilter) ([]*model.Lead, error)
	Get(ctx context.Context, scope policy.Scope, id string) (*model.Lead, error)
	Create(ctx context.Context, l *model.Lead, actorID string) (*model.Lead, error)
	Update(ctx context.Context, scope policy.Scope, id string, upd store.LeadUpdate, actorID string) (*model.Lead, error)
	Delete(ctx context.Context, scope policy.Scope, id string) error
	CountByStatus(ctx context.Context, scope policy.Scope) (map[string]int, error)
}

// ProjectStore is the scoped project surface
type ProjectStore interface {
	List(ctx context.Context, scope policy.Scope) ([]*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	StatsByProject(ctx context.Context, scope policy.Scope) ([]*store.ProjectStats, error)
}

// ActivityStore reads recent lead activity for reports
type ActivityStore interface {
	Recent(ctx context.Context, workspaceID string, limit int) ([]*model.ActivityLog, error)
}

// SocialStore is the workspace-scoped social post surface
type SocialStore interface {
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.SocialPost, error)
	Create(ctx context.Context, p *model.SocialPost) (*model.SocialPost, error)
}

// ProposalStore is the workspace-scoped proposal template surface
type ProposalStore interface {
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.ProposalTemplate, error)
	Create(ctx context.Context, t *model.ProposalTemplate) (*model.ProposalTemplate, error)
}
