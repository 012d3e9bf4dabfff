// Package link implements CRUD for important links.
package link

import (
	"context"
	"fmt"

	domlink "github.com/groupdex/groupdex/internal/domain/link"
)

// Service handles link operations.
type Service struct {
	repo Repository
}

// New creates a link service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new link.
func (s *Service) Create(ctx context.Context, title, description, url string) (domlink.Link, error) {
	l, err := domlink.New(title, description, url)
	if err != nil {
		return domlink.Link{}, fmt.Errorf("validate link: %w", err)
	}

	stored, err := s.repo.Create(ctx, l)
	if err != nil {
		return domlink.Link{}, fmt.Errorf("create link: %w", err)
	}
	return stored, nil
}

// Update replaces title, description, and URL of an existing link.
func (s *Service) Update(ctx context.Context, id int64, title, description, url string) (domlink.Link, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domlink.Link{}, fmt.Errorf("get link: %w", err)
	}

	updated, err := current.WithDetails(title, description, url)
	if err != nil {
		return domlink.Link{}, fmt.Errorf("validate link: %w", err)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return domlink.Link{}, fmt.Errorf("update link: %w", err)
	}
	return updated, nil
}

// Delete removes a link.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// List returns all links in creation order.
func (s *Service) List(ctx context.Context) ([]domlink.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}
