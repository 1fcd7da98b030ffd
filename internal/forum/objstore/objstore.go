// Package objstore abstracts where uploaded post images live. The
// filesystem implementation serves local deployments; swapping in a CDN
// backed store only requires another Upload implementation.
package objstore

import (
	"context"
	"errors"
)

var ErrUnsupportedType = errors.New("objstore: unsupported content type")

// Store persists an uploaded blob and returns its public URL.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}
