package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/httpx"
)

// MaxImageBytes caps uploaded post images at 5 MiB.
const MaxImageBytes = 5 << 20

// imageField is the multipart field name post images arrive in.
const imageField = "imageFile"

// PostsHandler serves the post CRUD surface plus voting.
type PostsHandler struct {
	PostService *service.PostService
	VoteService *service.VoteService
}

// HandleList lists every post. ?sort=mostVoted orders by votes with
// shallow comment population; the default orders by last_updated with
// deep population.
//
//	@Summary	List posts
//	@Tags		Posts
//	@Produce	json
//	@Param		sort	query		string	false	"mostVoted for vote ordering"
//	@Success	200		{array}		PostResponse
//	@Router		/api/posts [get].
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sort := store.SortRecent
	if r.URL.Query().Get("sort") == string(store.SortMostVoted) {
		sort = store.SortMostVoted
	}

	posts, err := h.PostService.ListPosts(r.Context(), sort)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponses(posts))
}

// HandleGet returns a single deeply populated post.
//
//	@Summary	Get a post
//	@Tags		Posts
//	@Produce	json
//	@Param		id	path		string	true	"Post id"
//	@Success	200	{object}	PostResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/posts/{id} [get].
func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleListByUser lists the given user's posts, newest first. Responds
// 404 when the user has no posts.
//
//	@Summary	List a user's posts
//	@Tags		Posts
//	@Security	SessionCookie
//	@Produce	json
//	@Param		userId	path		string	true	"User id"
//	@Success	200		{array}		PostResponse
//	@Failure	404		{object}	ErrorResponse	"User has no posts"
//	@Router		/api/posts/user/{userId} [get].
func (h *PostsHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListPostsByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(posts) == 0 {
		writeError(w, http.StatusNotFound, "not_found", "no posts for this user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponses(posts))
}

// HandleCreate creates a post from a multipart form with an optional
// image attachment.
//
//	@Summary	Create a post
//	@Tags		Posts
//	@Security	SessionCookie
//	@Accept		mpfd
//	@Produce	json
//	@Param		title		formData	string	true	"Title"
//	@Param		content		formData	string	true	"Body"
//	@Param		category	formData	string	true	"Category"
//	@Param		imageFile	formData	file	false	"Image (max 5 MiB)"
//	@Success	201			{object}	PostResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/api/posts/new-post [post].
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	image, ok := parseUploadForm(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), userID, service.CreatePostInput{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
		Image:    image,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

// HandleEdit partially updates a post. Only form fields that are present
// are applied; only the author may edit.
//
//	@Summary	Edit a post
//	@Tags		Posts
//	@Security	SessionCookie
//	@Accept		mpfd
//	@Produce	json
//	@Param		postId	path		string	true	"Post id"
//	@Success	200		{object}	PostResponse
//	@Failure	403		{object}	ErrorResponse	"Not the author"
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/posts/{postId} [put].
func (h *PostsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	image, ok := parseUploadForm(w, r)
	if !ok {
		return
	}

	in := service.EditPostInput{Image: image}
	if v, present := formValue(r, "title"); present {
		in.Title = &v
	}
	if v, present := formValue(r, "content"); present {
		in.Content = &v
	}
	if v, present := formValue(r, "category"); present {
		in.Category = &v
	}

	post, err := h.PostService.EditPost(r.Context(), userID, r.PathValue("postId"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleDelete removes a post. Only the author may delete.
//
//	@Summary	Delete a post
//	@Tags		Posts
//	@Security	SessionCookie
//	@Produce	json
//	@Param		id	path		string	true	"Post id"
//	@Success	200	{object}	map[string]string
//	@Failure	403	{object}	ErrorResponse	"Not the author"
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/posts/{id} [delete].
func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	if err := h.PostService.DeletePost(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// HandleUpvote casts an up vote.
//
//	@Summary	Up vote a post
//	@Tags		Posts
//	@Security	SessionCookie
//	@Produce	json
//	@Param		postId	path		string	true	"Post id"
//	@Success	200		{object}	PostResponse
//	@Failure	400		{object}	ErrorResponse	"Already up voted"
//	@Router		/api/posts/{postId}/upvote [post].
func (h *PostsHandler) HandleUpvote(w http.ResponseWriter, r *http.Request) {
	h.handleVote(w, r, domain.VoteUp)
}

// HandleDownvote casts a down vote.
//
//	@Summary	Down vote a post
//	@Tags		Posts
//	@Security	SessionCookie
//	@Produce	json
//	@Param		postId	path		string	true	"Post id"
//	@Success	200		{object}	PostResponse
//	@Failure	400		{object}	ErrorResponse	"Already down voted"
//	@Router		/api/posts/{postId}/downvote [post].
func (h *PostsHandler) HandleDownvote(w http.ResponseWriter, r *http.Request) {
	h.handleVote(w, r, domain.VoteDown)
}

func (h *PostsHandler) handleVote(w http.ResponseWriter, r *http.Request, dir domain.VoteDirection) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	post, err := h.VoteService.Cast(r.Context(), r.PathValue("postId"), userID, dir)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// parseUploadForm parses the multipart form with the image size cap
// applied and extracts the optional image attachment. On failure the
// error response has been written and ok is false.
func parseUploadForm(w http.ResponseWriter, r *http.Request) (*service.ImageUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+1<<20)
	if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image_too_large",
				"image exceeds the 5 MiB limit")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed multipart form")
		return nil, false
	}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unreadable image field")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unreadable image data")
		return nil, false
	}
	if len(data) > MaxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image_too_large",
			"image exceeds the 5 MiB limit")
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &service.ImageUpload{Data: data, ContentType: contentType}, true
}

// formValue reports whether the field was sent at all, so edits can tell
// "absent" apart from "set to empty".
func formValue(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, present := r.MultipartForm.Value[name]
	if !present || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
