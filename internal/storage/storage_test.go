package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"taskmanager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key := "task_attachments/abc_report.pdf"
	require.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("hello"))))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	assert.ErrorIs(t, store.Delete(ctx, key), domain.ErrBlobNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Put(context.Background(), "../escape.txt", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalStore_Ping(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", SanitizeFilename("report.pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_file_1_.txt", SanitizeFilename("my file (1).txt"))
	assert.Equal(t, "evil.exe", SanitizeFilename(`C:\Users\evil.exe`))
	assert.Equal(t, "file", SanitizeFilename("..."))
}

func TestNewKey_IsUnique(t *testing.T) {
	a := NewKey("task_attachments", "notes.txt")
	b := NewKey("task_attachments", "notes.txt")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "task_attachments/"))
	assert.True(t, strings.HasSuffix(a, "_notes.txt"))
}
