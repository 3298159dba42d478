package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrGeneratePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.Len(t, first, PepperSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// second load reads the same pepper back
	second, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadPepperVerbatimAndInvalid(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("not base64 !\n"), 0600))
	pepper, err := LoadOrGeneratePepper(plain)
	require.NoError(t, err)
	require.Equal(t, []byte("not base64 !"), pepper)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0600))
	_, err = LoadOrGeneratePepper(empty)
	require.Error(t, err)
}
