package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/objstore"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/idx"
	"github.com/wellfora/wellfora/pkg/slogx"
)

var (
	ErrInvalidPost     = errors.New("invalid post request")
	ErrInvalidCategory = errors.New("invalid category")
	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostAuthor   = errors.New("only the author may modify a post")
)

// PostService owns the post lifecycle: create, read, edit, delete. Vote
// handling lives in VoteService, comments in CommentService.
type PostService struct {
	Store   store.Store
	Objects objstore.Store
}

// ImageUpload is an optional attachment passed alongside create/edit.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// CreatePostInput carries the user-supplied post fields.
type CreatePostInput struct {
	Title    string
	Content  string
	Category string
	Image    *ImageUpload
}

// EditPostInput carries a partial update. Nil fields are left untouched.
type EditPostInput struct {
	Title    *string
	Content  *string
	Category *string
	Image    *ImageUpload
}

// CreatePost validates the input, stores the optional image, and inserts
// the post with zeroed vote counts.
func (s *PostService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (domain.Post, error) {
	log := slogx.FromContext(ctx)

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return domain.Post{}, ErrInvalidPost
	}

	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return domain.Post{}, ErrInvalidCategory
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return domain.Post{}, err
	}

	now := time.Now().UTC()
	post := domain.Post{
		ID:          idx.New().String(),
		AuthorID:    authorID,
		Title:       title,
		Content:     content,
		Category:    category,
		ImageURL:    imageURL,
		CreatedAt:   now,
		LastUpdated: now,
	}

	if err := s.Store.Posts().CreatePost(ctx, post); err != nil {
		log.Error("failed to create post", slog.Any("error", err))
		return domain.Post{}, err
	}

	log.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", authorID),
		slog.String("category", string(category)),
	)
	return s.GetPost(ctx, post.ID)
}

// GetPost returns a deeply populated post.
func (s *PostService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	post, err := s.Store.Posts().GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

// ListPosts returns every post in the requested order. The most-voted
// ordering populates comments shallowly; everything else deeply.
func (s *PostService) ListPosts(ctx context.Context, sort store.PostSort) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx, sort)
}

// ListPostsByUser returns a user's posts, newest first.
func (s *PostService) ListPostsByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.Store.Posts().ListPostsByAuthor(ctx, userID)
}

// EditPost applies a partial update. Only the author may edit; the edit
// bumps last_updated.
func (s *PostService) EditPost(ctx context.Context, actorID, postID string, in EditPostInput) (domain.Post, error) {
	log := slogx.FromContext(ctx)

	post, err := s.Store.Posts().GetPostForUpdate(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	if !post.AuthoredBy(actorID) {
		log.Warn("edit attempt by non-author",
			slog.String("post_id", postID),
			slog.String("actor_id", actorID),
		)
		return domain.Post{}, ErrNotPostAuthor
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return domain.Post{}, ErrInvalidPost
		}
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return domain.Post{}, ErrInvalidPost
		}
		post.Content = strings.TrimSpace(*in.Content)
	}
	if in.Category != nil {
		category, err := domain.ParseCategory(*in.Category)
		if err != nil {
			return domain.Post{}, ErrInvalidCategory
		}
		post.Category = category
	}
	if in.Image != nil {
		imageURL, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return domain.Post{}, err
		}
		post.ImageURL = imageURL
	}
	post.LastUpdated = time.Now().UTC()

	if err := s.Store.Posts().UpdatePost(ctx, post); err != nil {
		log.Error("failed to update post", slog.Any("error", err))
		return domain.Post{}, err
	}

	log.Debug("post edited", slog.String("post_id", postID))
	return s.GetPost(ctx, postID)
}

// DeletePost removes a post and, via the schema, its votes and comments.
// Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	log := slogx.FromContext(ctx)

	post, err := s.Store.Posts().GetPostForUpdate(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if !post.AuthoredBy(actorID) {
		log.Warn("delete attempt by non-author",
			slog.String("post_id", postID),
			slog.String("actor_id", actorID),
		)
		return ErrNotPostAuthor
	}

	if err := s.Store.Posts().DeletePost(ctx, postID); err != nil {
		log.Error("failed to delete post", slog.Any("error", err))
		return err
	}

	log.Info("post deleted",
		slog.String("post_id", postID),
		slog.String("author_id", actorID),
	)
	return nil
}

func (s *PostService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", nil
	}
	url, err := s.Objects.Upload(ctx, img.Data, img.ContentType)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to store post image", slog.Any("error", err))
		return "", err
	}
	return url, nil
}
