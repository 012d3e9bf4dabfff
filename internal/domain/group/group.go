// Package group defines the group aggregate.
package group

import (
	"fmt"
	"strings"

	"github.com/groupdex/groupdex/internal/domain"
)

// MinNameLen is the minimum group name length in runes.
const MinNameLen = 3

// MaxNameLen caps the group name length.
const MaxNameLen = 256

// Group is a directory entry (immutable value object).
type Group struct {
	id          int64
	name        string
	description string
	url         string
	pinned      bool
	createdAt   int64 // unix millis
}

// New validates and creates a Group. The ID is zero until the
// repository assigns one.
func New(name, description, url string) (Group, error) {
	name = strings.TrimSpace(name)
	nameLen := len([]rune(name))
	if nameLen < MinNameLen {
		return Group{}, fmt.Errorf("%w: name must be at least %d characters", domain.ErrInvalidInput, MinNameLen)
	}
	if nameLen > MaxNameLen {
		return Group{}, fmt.Errorf("%w: name too long (max %d)", domain.ErrInvalidInput, MaxNameLen)
	}

	return Group{
		name:        name,
		description: description,
		url:         url,
	}, nil
}

// Reconstruct creates a Group without validation (storage hydration).
func Reconstruct(id int64, name, description, url string, pinned bool, createdAt int64) Group {
	return Group{
		id:          id,
		name:        name,
		description: description,
		url:         url,
		pinned:      pinned,
		createdAt:   createdAt,
	}
}

// ID returns the group identifier.
func (g *Group) ID() int64 { return g.id }

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Description returns the group description (may be empty).
func (g *Group) Description() string { return g.description }

// URL returns the group URL (may be empty).
func (g *Group) URL() string { return g.url }

// Pinned reports whether the group is pinned to the top of listings.
func (g *Group) Pinned() bool { return g.pinned }

// CreatedAt returns the creation time in unix milliseconds.
func (g *Group) CreatedAt() int64 { return g.createdAt }

// WithIdentity returns a copy with the given ID and creation time set.
func (g *Group) WithIdentity(id, createdAt int64) Group {
	c := *g
	c.id = id
	c.createdAt = createdAt
	return c
}

// WithPinned returns a copy with the pinned flag set.
func (g *Group) WithPinned(pinned bool) Group {
	c := *g
	c.pinned = pinned
	return c
}

// WithDetails returns a copy with name, description, and URL replaced.
// The new name must satisfy the same rules as New.
func (g *Group) WithDetails(name, description, url string) (Group, error) {
	updated, err := New(name, description, url)
	if err != nil {
		return Group{}, err
	}
	c := *g
	c.name = updated.name
	c.description = updated.description
	c.url = updated.url
	return c, nil
}
