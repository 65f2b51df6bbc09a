package template

import (
	"context"

	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
)

// Filter narrows List. Zero values mean no restriction.
type Filter struct {
	Category   vo.Category
	ActiveOnly bool
}

type Repository interface {
	Create(ctx context.Context, t *Template) error
	// GetByID returns nil, nil when the template does not exist.
	GetByID(ctx context.Context, id string) (*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]*Template, error)
	ExistsSystemTemplate(ctx context.Context, name string) (bool, error)
	// IncrementUsage bumps usage_count by one in a single statement.
	IncrementUsage(ctx context.Context, id string) error
}
