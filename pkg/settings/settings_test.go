package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArtCorp/exprdag/pkg/settings"
)

func TestLoadFallsBackToDefaultsWithoutAFile(t *testing.T) {
	s, err := settings.Load("")
	require.NoError(t, err)
	require.Equal(t, settings.Default(), s)
}

func TestLoadDecodesTomlFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exprdag.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_temporary_columns = 7\nmax_temporary_non_const_columns = 3\n"), 0o644))

	s, err := settings.Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, s.MaxTemporaryColumns)
	require.Equal(t, 3, s.MaxTemporaryNonConstColumns)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exprdag.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_temporary_columns = 7\n"), 0o644))

	t.Setenv("EXPRDAG_MAX_TEMPORARY_COLUMNS", "42")

	s, err := settings.Load(path)
	require.NoError(t, err)
	require.Equal(t, 42, s.MaxTemporaryColumns)
}

func TestLimitsAdapter(t *testing.T) {
	s := settings.Settings{MaxTemporaryColumns: 5, MaxTemporaryNonConstColumns: 2}
	l := s.Limits()
	require.Equal(t, 5, l.MaxTemporaryColumns)
	require.Equal(t, 2, l.MaxTemporaryNonConstColumns)
}
