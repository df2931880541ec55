package storage

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	base := filepath.Join(t.TempDir(), "uploads")

	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("photo"), "attendance/2024-03-04/checkin.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "attendance/2024-03-04/checkin.jpg", path)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "photo", string(data))

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path))

	exists, err = s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Download(ctx, path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../escape.txt", "text/plain")
	assert.Error(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../uploads-evil/x.txt", "text/plain")
	assert.Error(t, err)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
