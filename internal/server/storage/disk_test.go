package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiskStore_ProvisionsDirectories(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "uploads")

	s, err := NewDiskStore(root, "http://localhost:8080/")
	require.NoError(t, err)

	for _, d := range []string{AvatarsPrefix, DocumentsPrefix} {
		fi, err := os.Stat(filepath.Join(s.Root(), d))
		require.NoError(t, err)
		assert.True(t, fi.IsDir())
	}
}

func TestDiskStore_PutGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	key := "documents/file-1-ab.pdf.enc"
	require.NoError(t, s.Put(ctx, key, []byte("ciphertext"), "application/octet-stream"))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", string(got))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestDiskStore_URL(t *testing.T) {
	t.Parallel()
	s, err := NewDiskStore(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	u, err := s.URL(context.Background(), "avatars/avatar-1-x.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/avatars/avatar-1-x.png", u)
}

func TestDiskStore_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := NewDiskStore(t.TempDir(), "")
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../secret", "documents/../../x", "a\\b", ".", "documents//x"} {
		err := s.Put(ctx, key, []byte("x"), "")
		assert.ErrorIs(t, err, common.ErrorValidation, "key %q", key)
		_, err = s.Get(ctx, key)
		assert.ErrorIs(t, err, common.ErrorValidation, "key %q", key)
	}
}
