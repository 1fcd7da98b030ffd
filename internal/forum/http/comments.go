package http

import (
	"encoding/json"
	"net/http"

	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/pkg/httpx"
)

// CommentsHandler serves comments and their embedded replies.
type CommentsHandler struct {
	CommentService *service.CommentService
}

type createCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type createReplyRequest struct {
	CommentID string `json:"comment_id"`
	Content   string `json:"content"`
}

// HandleCreate adds a top-level comment to a post.
//
//	@Summary	Comment on a post
//	@Tags		Comments
//	@Security	SessionCookie
//	@Accept		json
//	@Produce	json
//	@Param		body	body		createCommentRequest	true	"Comment"
//	@Success	201		{object}	CommentResponse
//	@Failure	404		{object}	ErrorResponse	"Post not found"
//	@Router		/api/post/comment [post].
func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	comment, err := h.CommentService.CreateComment(r.Context(), userID, req.PostID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// HandleListForPost lists a post's comments in creation order.
//
//	@Summary	List a post's comments
//	@Tags		Comments
//	@Produce	json
//	@Param		postId	path		string	true	"Post id"
//	@Success	200		{array}		CommentResponse
//	@Router		/api/post/comment/{postId} [get].
func (h *CommentsHandler) HandleListForPost(w http.ResponseWriter, r *http.Request) {
	comments, err := h.CommentService.ListForPost(r.Context(), r.PathValue("postId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponses(comments))
}

// HandleCreateReply appends a reply to an existing comment and returns
// the updated comment.
//
//	@Summary	Reply to a comment
//	@Tags		Comments
//	@Security	SessionCookie
//	@Accept		json
//	@Produce	json
//	@Param		body	body		createReplyRequest	true	"Reply"
//	@Success	201		{object}	CommentResponse
//	@Failure	404		{object}	ErrorResponse	"Comment not found"
//	@Router		/api/post/comment/reply [post].
func (h *CommentsHandler) HandleCreateReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	var req createReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	comment, err := h.CommentService.CreateReply(r.Context(), userID, req.CommentID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// HandleListReplies lists a comment's replies in creation order.
//
//	@Summary	List a comment's replies
//	@Tags		Comments
//	@Produce	json
//	@Param		commentId	path		string	true	"Comment id"
//	@Success	200			{array}		ReplyResponse
//	@Failure	404			{object}	ErrorResponse	"Comment not found"
//	@Router		/api/post/comment/replies/{commentId} [get].
func (h *CommentsHandler) HandleListReplies(w http.ResponseWriter, r *http.Request) {
	comment, err := h.CommentService.GetComment(r.Context(), r.PathValue("commentId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponse(comment).Replies)
}
