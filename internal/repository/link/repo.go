// Package link persists important links as one Redis hash per entity.
package link

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/groupdex/groupdex/internal/domain"
	domlink "github.com/groupdex/groupdex/internal/domain/link"
)

// store is the consumer interface for link persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/link.Repository.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a link repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Create assigns an ID and stores the link. Returns the stored link.
func (r *Repo) Create(ctx context.Context, l domlink.Link) (domlink.Link, error) {
	id, err := r.store.Incr(ctx, seqKey())
	if err != nil {
		return domlink.Link{}, fmt.Errorf("allocate link id: %w", err)
	}

	stored := l.WithIdentity(id, r.now().UnixMilli())
	if err := r.store.HSet(ctx, linkKey(id), linkToHash(stored)); err != nil {
		return domlink.Link{}, fmt.Errorf("store link %d: %w", id, err)
	}
	return stored, nil
}

// Get returns a link by ID.
func (r *Repo) Get(ctx context.Context, id int64) (domlink.Link, error) {
	m, err := r.store.HGetAll(ctx, linkKey(id))
	if err != nil {
		return domlink.Link{}, fmt.Errorf("hgetall link %d: %w", id, err)
	}
	if len(m) == 0 {
		return domlink.Link{}, domain.ErrLinkNotFound
	}
	return linkFromHash(id, m), nil
}

// List returns all links sorted by creation time, then ID.
func (r *Repo) List(ctx context.Context) ([]domlink.Link, error) {
	keys, err := r.store.Scan(ctx, linkKeyPattern())
	if err != nil {
		return nil, fmt.Errorf("scan links: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch links: %w", err)
	}

	links := make([]domlink.Link, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		id, err := idFromKey(keys[i])
		if err != nil {
			return nil, err
		}
		links = append(links, linkFromHash(id, m))
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt() != links[j].CreatedAt() {
			return links[i].CreatedAt() < links[j].CreatedAt()
		}
		return links[i].ID() < links[j].ID()
	})

	return links, nil
}

// Update overwrites a stored link. The link must exist.
func (r *Repo) Update(ctx context.Context, l domlink.Link) error {
	exists, err := r.store.Exists(ctx, linkKey(l.ID()))
	if err != nil {
		return fmt.Errorf("check link %d: %w", l.ID(), err)
	}
	if !exists {
		return domain.ErrLinkNotFound
	}
	if err := r.store.HSet(ctx, linkKey(l.ID()), linkToHash(l)); err != nil {
		return fmt.Errorf("store link %d: %w", l.ID(), err)
	}
	return nil
}

// Delete removes a link.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	exists, err := r.store.Exists(ctx, linkKey(id))
	if err != nil {
		return fmt.Errorf("check link %d: %w", id, err)
	}
	if !exists {
		return domain.ErrLinkNotFound
	}
	if err := r.store.Del(ctx, linkKey(id)); err != nil {
		return fmt.Errorf("del link %d: %w", id, err)
	}
	return nil
}

// linkToHash flattens a link into HSET fields.
func linkToHash(l domlink.Link) map[string]string {
	return map[string]string{
		"title":       l.Title(),
		"description": l.Description(),
		"url":         l.URL(),
		"created_at":  strconv.FormatInt(l.CreatedAt(), 10),
	}
}

// linkFromHash hydrates a domain Link from an HGETALL result map.
func linkFromHash(id int64, m map[string]string) domlink.Link {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domlink.Reconstruct(id, m["title"], m["description"], m["url"], createdAt)
}

func linkKey(id int64) string {
	return fmt.Sprintf("%slink:%d", domain.KeyPrefix, id)
}

func linkKeyPattern() string {
	return domain.KeyPrefix + "link:*"
}

func seqKey() string {
	return domain.KeyPrefix + "seq:link"
}

func idFromKey(key string) (int64, error) {
	raw := key[strings.LastIndexByte(key, ':')+1:]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad link key %q: %w", key, err)
	}
	return id, nil
}
