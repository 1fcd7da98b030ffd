package objstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemStoreUpload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFilesystemStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), []byte("not really a png"), "image/png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	name := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, "not really a png", string(data))
}

func TestFilesystemStoreRejectsUnknownType(t *testing.T) {
	s, err := NewFilesystemStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), []byte("payload"), "application/pdf")
	require.ErrorIs(t, err, ErrUnsupportedType)
}
