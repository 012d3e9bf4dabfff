// Package group implements group CRUD, pinning, and fuzzy search.
package group

import (
	"context"
	"fmt"
	"strings"

	domgroup "github.com/groupdex/groupdex/internal/domain/group"
	"github.com/groupdex/groupdex/internal/domain/match"
	"github.com/groupdex/groupdex/internal/metrics"
)

// Service handles group operations.
type Service struct {
	repo      Repository
	threshold float64
}

// New creates a group service. threshold is the fuzzy match threshold
// passed through to the matching engine.
func New(repo Repository, threshold float64) *Service {
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}
	return &Service{repo: repo, threshold: threshold}
}

// Create validates and stores a new group.
func (s *Service) Create(ctx context.Context, name, description, url string) (domgroup.Group, error) {
	g, err := domgroup.New(name, description, url)
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("validate group: %w", err)
	}

	stored, err := s.repo.Create(ctx, g)
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("create group: %w", err)
	}
	return stored, nil
}

// Update replaces name, description, and URL of an existing group.
func (s *Service) Update(ctx context.Context, id int64, name, description, url string) (domgroup.Group, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("get group: %w", err)
	}

	updated, err := current.WithDetails(name, description, url)
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("validate group: %w", err)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return domgroup.Group{}, fmt.Errorf("update group: %w", err)
	}
	return updated, nil
}

// Delete removes a group.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// Pin sets or clears the pinned flag on a group.
func (s *Service) Pin(ctx context.Context, id int64, pinned bool) (domgroup.Group, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domgroup.Group{}, fmt.Errorf("get group: %w", err)
	}

	updated := current.WithPinned(pinned)
	if err := s.repo.Update(ctx, updated); err != nil {
		return domgroup.Group{}, fmt.Errorf("pin group: %w", err)
	}
	return updated, nil
}

// List returns groups for display. A blank query returns every group
// with pinned entries first (creation order within each partition);
// otherwise groups are ranked by fuzzy relevance and non-matches are
// dropped. The matching engine treats an empty query as "match
// everything", so the blank-query policy lives here, not in the
// engine.
func (s *Service) List(ctx context.Context, query string) ([]domgroup.Group, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	if strings.TrimSpace(query) == "" {
		return pinnedFirst(groups), nil
	}
	return s.search(query, groups), nil
}

// search ranks groups by fuzzy relevance against query.
func (s *Service) search(query string, groups []domgroup.Group) []domgroup.Group {
	entries := make([]match.Entry, len(groups))
	for i := range groups {
		entries[i] = match.Entry{
			Name:        groups[i].Name(),
			Description: groups[i].Description(),
		}
	}

	order := match.Rank(query, entries, s.threshold)

	metrics.SearchesTotal.Inc()
	metrics.SearchResults.Observe(float64(len(order)))

	ranked := make([]domgroup.Group, len(order))
	for i, idx := range order {
		ranked[i] = groups[idx]
	}
	return ranked
}

// pinnedFirst partitions groups into pinned then unpinned, preserving
// order within each partition.
func pinnedFirst(groups []domgroup.Group) []domgroup.Group {
	out := make([]domgroup.Group, 0, len(groups))
	for i := range groups {
		if groups[i].Pinned() {
			out = append(out, groups[i])
		}
	}
	for i := range groups {
		if !groups[i].Pinned() {
			out = append(out, groups[i])
		}
	}
	return out
}
