package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()

	h, err := NewHS256([]byte("test-secret-at-least-32-bytes-long"), "wellfora-test")
	require.NoError(t, err)
	return h
}

func TestHS256SignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	now := time.Now().UTC()

	claims := NewSessionClaims(
		"01HZXW0000USER000000000000",
		"jordan",
		"jordan@example.com",
		"https://img.example.com/jordan.png",
		"wellfora-test",
		time.Hour,
		now,
	)

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "01HZXW0000USER000000000000", got.Subject)
	require.Equal(t, "jordan", got.Username)
	require.Equal(t, "jordan@example.com", got.Email)
	require.Equal(t, "https://img.example.com/jordan.png", got.ImageURL)
	require.NotEmpty(t, got.ID)
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	other, err := NewHS256([]byte("a-completely-different-secret!!!"), "wellfora-test")
	require.NoError(t, err)

	claims := NewSessionClaims("u1", "a", "a@b.c", "", "wellfora-test", time.Hour, time.Now().UTC())
	raw, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	claims := NewSessionClaims("u1", "a", "a@b.c", "", "wellfora-test", time.Hour,
		time.Now().UTC().Add(-2*time.Hour))

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256RejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	claims := NewSessionClaims("u1", "a", "a@b.c", "", "someone-else", time.Hour, time.Now().UTC())

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256RejectsGarbage(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	_, err := h.Verify("definitely.not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, "x")
	require.Error(t, err)
}
