package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/internal/forum/store/drivers/sqlite"
	"github.com/wellfora/wellfora/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte("test-secret"), "wellfora-test")
	require.NoError(t, err)
	return signer
}

func registerUser(t *testing.T, auth *AuthService, username string) domain.User {
	t.Helper()

	user, _, err := auth.Register(context.Background(), username, username+"@example.com", "s3cret")
	require.NoError(t, err)
	return user
}

// memObjects is an in-memory objstore.Store for tests.
type memObjects struct {
	uploads int
}

func (m *memObjects) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	m.uploads++
	return "http://cdn.test/blob", nil
}
