package group

import (
	"context"

	domgroup "github.com/groupdex/groupdex/internal/domain/group"
)

// Repository defines the storage contract for groups.
type Repository interface {
	Create(ctx context.Context, g domgroup.Group) (domgroup.Group, error)
	Get(ctx context.Context, id int64) (domgroup.Group, error)
	List(ctx context.Context) ([]domgroup.Group, error)
	Update(ctx context.Context, g domgroup.Group) error
	Delete(ctx context.Context, id int64) error
}
