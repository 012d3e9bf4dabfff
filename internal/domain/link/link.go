// Package link defines the important-link aggregate.
package link

import (
	"fmt"
	"strings"

	"github.com/groupdex/groupdex/internal/domain"
)

// MinTitleLen is the minimum link title length in runes.
const MinTitleLen = 3

// Link is an important link shown alongside the group directory
// (immutable value object).
type Link struct {
	id          int64
	title       string
	description string
	url         string
	createdAt   int64 // unix millis
}

// New validates and creates a Link. The ID is zero until the
// repository assigns one.
func New(title, description, url string) (Link, error) {
	title = strings.TrimSpace(title)
	if len([]rune(title)) < MinTitleLen {
		return Link{}, fmt.Errorf("%w: title must be at least %d characters", domain.ErrInvalidInput, MinTitleLen)
	}
	if strings.TrimSpace(url) == "" {
		return Link{}, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	return Link{
		title:       title,
		description: description,
		url:         strings.TrimSpace(url),
	}, nil
}

// Reconstruct creates a Link without validation (storage hydration).
func Reconstruct(id int64, title, description, url string, createdAt int64) Link {
	return Link{id: id, title: title, description: description, url: url, createdAt: createdAt}
}

// ID returns the link identifier.
func (l *Link) ID() int64 { return l.id }

// Title returns the link title.
func (l *Link) Title() string { return l.title }

// Description returns the link description (may be empty).
func (l *Link) Description() string { return l.description }

// URL returns the link target.
func (l *Link) URL() string { return l.url }

// CreatedAt returns the creation time in unix milliseconds.
func (l *Link) CreatedAt() int64 { return l.createdAt }

// WithIdentity returns a copy with the given ID and creation time set.
func (l *Link) WithIdentity(id, createdAt int64) Link {
	c := *l
	c.id = id
	c.createdAt = createdAt
	return c
}

// WithDetails returns a copy with title, description, and URL
// replaced, applying the same rules as New.
func (l *Link) WithDetails(title, description, url string) (Link, error) {
	updated, err := New(title, description, url)
	if err != nil {
		return Link{}, err
	}
	c := *l
	c.title = updated.title
	c.description = updated.description
	c.url = updated.url
	return c, nil
}
