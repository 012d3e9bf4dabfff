// Package group persists groups as one Redis hash per entity.
package group

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/groupdex/groupdex/internal/domain"
	domgroup "github.com/groupdex/groupdex/internal/domain/group"
)

// store is the consumer interface for group persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/group.Repository.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a group repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Create assigns an ID and stores the group. Returns the stored group.
func (r *Repo) Create(ctx context.Context, g domgroup.Group) (domgroup.Group, error) {
	id, err := r.store.Incr(ctx, seqKey())
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("allocate group id: %w", err)
	}

	stored := g.WithIdentity(id, r.now().UnixMilli())
	if err := r.store.HSet(ctx, groupKey(id), groupToHash(stored)); err != nil {
		return domgroup.Group{}, fmt.Errorf("store group %d: %w", id, err)
	}
	return stored, nil
}

// Get returns a group by ID.
func (r *Repo) Get(ctx context.Context, id int64) (domgroup.Group, error) {
	m, err := r.store.HGetAll(ctx, groupKey(id))
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("hgetall group %d: %w", id, err)
	}
	if len(m) == 0 {
		return domgroup.Group{}, domain.ErrGroupNotFound
	}
	return groupFromHash(id, m), nil
}

// List returns all groups sorted by creation time, then ID.
func (r *Repo) List(ctx context.Context) ([]domgroup.Group, error) {
	keys, err := r.store.Scan(ctx, groupKeyPattern())
	if err != nil {
		return nil, fmt.Errorf("scan groups: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}

	groups := make([]domgroup.Group, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		id, err := idFromKey(keys[i])
		if err != nil {
			return nil, err
		}
		groups = append(groups, groupFromHash(id, m))
	}

	// SCAN order is unspecified; sort for deterministic listings.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt() != groups[j].CreatedAt() {
			return groups[i].CreatedAt() < groups[j].CreatedAt()
		}
		return groups[i].ID() < groups[j].ID()
	})

	return groups, nil
}

// Update overwrites a stored group. The group must exist.
func (r *Repo) Update(ctx context.Context, g domgroup.Group) error {
	exists, err := r.store.Exists(ctx, groupKey(g.ID()))
	if err != nil {
		return fmt.Errorf("check group %d: %w", g.ID(), err)
	}
	if !exists {
		return domain.ErrGroupNotFound
	}
	if err := r.store.HSet(ctx, groupKey(g.ID()), groupToHash(g)); err != nil {
		return fmt.Errorf("store group %d: %w", g.ID(), err)
	}
	return nil
}

// Delete removes a group.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	exists, err := r.store.Exists(ctx, groupKey(id))
	if err != nil {
		return fmt.Errorf("check group %d: %w", id, err)
	}
	if !exists {
		return domain.ErrGroupNotFound
	}
	if err := r.store.Del(ctx, groupKey(id)); err != nil {
		return fmt.Errorf("del group %d: %w", id, err)
	}
	return nil
}

func groupKey(id int64) string {
	return fmt.Sprintf("%sgroup:%d", domain.KeyPrefix, id)
}

func groupKeyPattern() string {
	return domain.KeyPrefix + "group:*"
}

func seqKey() string {
	return domain.KeyPrefix + "seq:group"
}

func idFromKey(key string) (int64, error) {
	raw := key[strings.LastIndexByte(key, ':')+1:]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad group key %q: %w", key, err)
	}
	return id, nil
}
