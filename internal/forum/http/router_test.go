package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wellfora/wellfora/internal/forum/objstore"
	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/internal/forum/store/drivers/sqlite"
	"github.com/wellfora/wellfora/pkg/httpx"
	"github.com/wellfora/wellfora/pkg/jwtx"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("test-secret"), "wellfora-test")
	require.NoError(t, err)

	objects, err := objstore.NewFilesystemStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(signer, "test", st, logger, false, objects.Dir())
	r.AuthService = &service.AuthService{Store: st, Signer: signer}
	r.PostService = &service.PostService{Store: st, Objects: objects}
	r.VoteService = &service.VoteService{Store: st}
	r.CommentService = &service.CommentService{Store: st}
	r.UserService = &service.UserService{Store: st}
	r.ApplyRoutes()
	return r
}

func doJSON(t *testing.T, router *Router, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == httpx.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerAs(t *testing.T, router *Router, username string) *http.Cookie {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/my/user/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return sessionCookie(t, rec)
}

func createPostMultipart(t *testing.T, router *Router, cookie *http.Cookie, title, category string) PostResponse {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", title))
	require.NoError(t, form.WriteField("content", "body of "+title))
	require.NoError(t, form.WriteField("category", category))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts/new-post", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[PostResponse](t, rec)
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	router := newTestRouter(t)

	cookie := registerAs(t, router, "alice")
	require.True(t, cookie.HttpOnly)

	// Duplicate registration conflicts.
	rec := doJSON(t, router, http.MethodPost, "/api/my/user/register", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "x",
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Login works and refreshes the cookie.
	rec = doJSON(t, router, http.MethodPost, "/api/my/user/login", map[string]string{
		"username": "alice", "password": "s3cret",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sessionCookie(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/my/user/login", map[string]string{
		"username": "alice", "password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout clears the cookie.
	rec = doJSON(t, router, http.MethodPost, "/api/my/user/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpx.SessionCookieName {
			require.Empty(t, c.Value)
			require.Negative(t, c.MaxAge)
		}
	}

	// Own profile with a valid session.
	rec = doJSON(t, router, http.MethodGet, "/api/users/single", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice")
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	author := registerAs(t, router, "alice")
	other := registerAs(t, router, "bob")

	post := createPostMultipart(t, router, author, "hydration tips", "Kidney")
	require.Equal(t, "Kidney", post.Category)
	require.NotNil(t, post.Author)

	// Unauthenticated create is rejected before the handler runs.
	req := httptest.NewRequest(http.MethodPost, "/api/posts/new-post", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Public read.
	rec = doJSON(t, router, http.MethodGet, "/api/posts/"+post.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]PostResponse](t, rec), 1)

	// Votes: toggle rules surface as statuses.
	rec = doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/upvote", nil, other)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decodeBody[PostResponse](t, rec).UpVotes)

	rec = doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/upvote", nil, other)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/downvote", nil, other)
	require.Equal(t, http.StatusOK, rec.Code)
	voted := decodeBody[PostResponse](t, rec)
	require.Zero(t, voted.UpVotes)
	require.Equal(t, 1, voted.DownVotes)

	// Ownership: bob cannot delete alice's post.
	rec = doJSON(t, router, http.MethodDelete, "/api/posts/"+post.ID, nil, other)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/posts/"+post.ID, nil, author)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts/"+post.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentsOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	author := registerAs(t, router, "alice")
	post := createPostMultipart(t, router, author, "threaded", "Heart")

	rec := doJSON(t, router, http.MethodPost, "/api/post/comment", map[string]string{
		"post_id": post.ID, "content": "first!",
	}, author)
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decodeBody[CommentResponse](t, rec)
	require.NotNil(t, comment.Author)

	rec = doJSON(t, router, http.MethodPost, "/api/post/comment/reply", map[string]string{
		"comment_id": comment.ID, "content": "welcome",
	}, author)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, decodeBody[CommentResponse](t, rec).Replies, 1)

	// Public comment reads.
	rec = doJSON(t, router, http.MethodGet, "/api/post/comment/"+post.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]CommentResponse](t, rec), 1)

	rec = doJSON(t, router, http.MethodGet, "/api/post/comment/replies/"+comment.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]ReplyResponse](t, rec), 1)
}

func TestUserListingOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	alice := registerAs(t, router, "alice")
	registerAs(t, router, "bob")

	// Directory requires a session and never leaks hashes.
	rec := doJSON(t, router, http.MethodGet, "/api/users", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/users", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")

	// Per-user listing 404s when the user has no posts.
	users := decodeBody[[]map[string]string](t, rec)
	require.Len(t, users, 2)
	rec = doJSON(t, router, http.MethodGet, "/api/posts/user/"+users[0]["id"], nil, alice)
	require.Equal(t, http.StatusNotFound, rec.Code)

	post := createPostMultipart(t, router, alice, "mine", "Fitness")
	rec = doJSON(t, router, http.MethodGet, "/api/posts/user/"+post.Author.ID, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]PostResponse](t, rec), 1)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = doJSON(t, router, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
}
