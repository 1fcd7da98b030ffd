package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/idx"
	"github.com/wellfora/wellfora/pkg/slogx"
)

var (
	ErrInvalidComment  = errors.New("invalid comment request")
	ErrCommentNotFound = errors.New("comment not found")
)

// CommentService handles comments and their embedded replies. Neither
// supports edit or delete; they only accumulate.
type CommentService struct {
	Store store.Store
}

// CreateComment adds a top-level comment to a post and returns it with
// the author resolved.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID, content string) (domain.Comment, error) {
	log := slogx.FromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, ErrInvalidComment
	}

	if _, err := s.Store.Posts().GetPostForUpdate(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        idx.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Comments().CreateComment(ctx, comment); err != nil {
		log.Error("failed to create comment", slog.Any("error", err))
		return domain.Comment{}, err
	}

	log.Debug("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", postID),
	)
	return s.Store.Comments().GetCommentByID(ctx, comment.ID)
}

// GetComment returns a comment with its author and replies.
func (s *CommentService) GetComment(ctx context.Context, id string) (domain.Comment, error) {
	comment, err := s.Store.Comments().GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrCommentNotFound
		}
		return domain.Comment{}, err
	}
	return comment, nil
}

// ListForPost returns a post's comments in creation order.
func (s *CommentService) ListForPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	return s.Store.Comments().ListCommentsForPost(ctx, postID)
}

// CreateReply appends a reply to an existing comment and returns the
// updated comment. Reply ids are UUIDs, unlike the ULIDs used elsewhere.
func (s *CommentService) CreateReply(ctx context.Context, authorID, commentID, content string) (domain.Comment, error) {
	log := slogx.FromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, ErrInvalidComment
	}

	if _, err := s.Store.Comments().GetCommentByID(ctx, commentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrCommentNotFound
		}
		return domain.Comment{}, err
	}

	reply := domain.Reply{
		ID:          uuid.NewString(),
		CommentID:   commentID,
		AuthorID:    authorID,
		Content:     content,
		LastUpdated: time.Now().UTC(),
	}

	if err := s.Store.Comments().CreateReply(ctx, reply); err != nil {
		log.Error("failed to create reply", slog.Any("error", err))
		return domain.Comment{}, err
	}

	log.Debug("reply created",
		slog.String("reply_id", reply.ID),
		slog.String("comment_id", commentID),
	)
	return s.Store.Comments().GetCommentByID(ctx, commentID)
}
