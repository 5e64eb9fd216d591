package id_test

import (
	"strings"
	"testing"

	"github.com/openshelf/openshelf-server/internal/id"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Prefix(t *testing.T) {
	got, err := id.Generate("author")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "author-"))
	require.Greater(t, len(got), len("author-"))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := id.Generate("book")
		require.NoError(t, err)
		require.False(t, seen[got], "duplicate ID generated: %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	got := id.MustGenerate("user")
	require.True(t, strings.HasPrefix(got, "user-"))
}
