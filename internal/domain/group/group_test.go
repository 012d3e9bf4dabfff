package group

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupdex/groupdex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	g, err := New("Soccer Fans", "weekly matches", "https://example.org/soccer")
	require.NoError(t, err)

	assert.Equal(t, "Soccer Fans", g.Name())
	assert.Equal(t, "weekly matches", g.Description())
	assert.Equal(t, "https://example.org/soccer", g.URL())
	assert.False(t, g.Pinned())
	assert.Zero(t, g.ID())
}

func TestNew_NameTooShort(t *testing.T) {
	for _, name := range []string{"", "ab", "  a  "} {
		_, err := New(name, "", "")
		require.Error(t, err, "name %q", name)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestNew_NameLengthCountsRunes(t *testing.T) {
	// Two runes, six bytes: still below the minimum.
	_, err := New("日本", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Exactly MaxNameLen runes of a three-byte character is valid even
	// though the byte count is far over the limit.
	long := strings.Repeat("日", MaxNameLen)
	g, err := New(long, "", "")
	require.NoError(t, err)
	assert.Equal(t, long, g.Name())

	_, err = New(long+"日", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestNew_TrimsName(t *testing.T) {
	g, err := New("  Book Club  ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Book Club", g.Name())
}

func TestWithIdentity(t *testing.T) {
	g, err := New("Book Club", "", "")
	require.NoError(t, err)

	g2 := g.WithIdentity(7, 1700000000000)
	assert.EqualValues(t, 7, g2.ID())
	assert.EqualValues(t, 1700000000000, g2.CreatedAt())
	assert.Zero(t, g.ID(), "original unchanged")
}

func TestWithPinned(t *testing.T) {
	g := Reconstruct(1, "Book Club", "", "", false, 0)
	pinned := g.WithPinned(true)
	assert.True(t, pinned.Pinned())
	assert.False(t, g.Pinned())
}

func TestWithDetails(t *testing.T) {
	g := Reconstruct(5, "Book Club", "old", "", true, 42)

	updated, err := g.WithDetails("Film Club", "movies", "https://example.org")
	require.NoError(t, err)
	assert.EqualValues(t, 5, updated.ID())
	assert.EqualValues(t, 42, updated.CreatedAt())
	assert.True(t, updated.Pinned())
	assert.Equal(t, "Film Club", updated.Name())
	assert.Equal(t, "movies", updated.Description())

	_, err = g.WithDetails("x", "", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
