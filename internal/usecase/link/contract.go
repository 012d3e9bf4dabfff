package link

import (
	"context"

	domlink "github.com/groupdex/groupdex/internal/domain/link"
)

// Repository persists links.
type Repository interface {
	Create(ctx context.Context, l domlink.Link) (domlink.Link, error)
	Get(ctx context.Context, id int64) (domlink.Link, error)
	List(ctx context.Context) ([]domlink.Link, error)
	Update(ctx context.Context, l domlink.Link) error
	Delete(ctx context.Context, id int64) error
}
