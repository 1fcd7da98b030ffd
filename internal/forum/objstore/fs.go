package objstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/wellfora/wellfora/pkg/idx"
)

// extensions maps the accepted image content types to file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FilesystemStore writes blobs under a local directory and builds URLs
// from a public base. The directory is served by the HTTP layer under
// /uploads/.
type FilesystemStore struct {
	dir     string
	baseURL string
}

func NewFilesystemStore(dir, baseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory blobs are written to.
func (s *FilesystemStore) Dir() string { return s.dir }

func (s *FilesystemStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := idx.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + name, nil
}
