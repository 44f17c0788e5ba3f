package page

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTripsEveryPage(t *testing.T) {
	for _, id := range All() {
		got, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	got, err := Parse("  Analytics ")
	require.NoError(t, err)
	require.Equal(t, Analytics, got)
}

func TestParseRejectsUnknown(t *testing.T) {
	_, err := Parse("settings")
	require.True(t, errors.Is(err, ErrUnknownPage))
}

func TestValid(t *testing.T) {
	require.True(t, Profile.Valid())
	require.False(t, ID(Count).Valid())
	require.False(t, ID(200).Valid())
	require.Equal(t, "page(200)", ID(200).String())
}

func TestNextPrevWrap(t *testing.T) {
	require.Equal(t, Dashboard, Profile.Next())
	require.Equal(t, Profile, Dashboard.Prev())
	require.Equal(t, Analytics, Transactions.Next())
	require.Equal(t, Default, ID(99).Next())
}

func TestJumpKeysAreUnique(t *testing.T) {
	seen := map[string]ID{}
	for _, id := range All() {
		k := id.JumpKey()
		require.NotEmpty(t, k)
		_, dup := seen[k]
		require.False(t, dup, "duplicate jump key %q", k)
		seen[k] = id
	}
}
