package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("", "avatars")
	require.NoError(t, err)

	want := filepath.Join(tmp, "avatars")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_UnderRoot(t *testing.T) {
	root := t.TempDir()

	got, err := EnsureSubdDir(root, "documents")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "documents"), got)
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	root := t.TempDir()

	first, err := EnsureSubdDir(root, "documents")
	require.NoError(t, err)

	second, err := EnsureSubdDir(root, "documents")
	require.NoError(t, err)

	require.Equal(t, first, second)
	fi, err := os.Stat(second)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "avatars"), []byte("x"), 0o660))

	_, err := EnsureSubdDir(root, "avatars")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestEnsureSubdDirs(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, EnsureSubdDirs(root, "avatars", "documents"))

	for _, name := range []string{"avatars", "documents"} {
		fi, err := os.Stat(filepath.Join(root, name))
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	}
}
