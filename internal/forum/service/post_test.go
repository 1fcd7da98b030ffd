package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
)

func strptr(s string) *string { return &s }

func TestCreatePost(t *testing.T) {
	st := newTestStore(t)
	auth := &AuthService{Store: st, Signer: newTestSigner(t)}
	objects := &memObjects{}
	posts := &PostService{Store: st, Objects: objects}
	ctx := context.Background()

	author := registerUser(t, auth, "alice")

	post, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title:    "Managing blood sugar",
		Content:  "What has worked for you?",
		Category: "Diabetes",
	})
	require.NoError(t, err)
	require.Equal(t, domain.CategoryDiabetes, post.Category)
	require.Zero(t, post.UpVotes)
	require.NotNil(t, post.Author)
	require.Equal(t, "alice", post.Author.Username)
	require.Zero(t, objects.uploads)

	t.Run("with image", func(t *testing.T) {
		post, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
			Title:    "With picture",
			Content:  "see attached",
			Category: "Fitness",
			Image:    &ImageUpload{Data: []byte{0x89}, ContentType: "image/png"},
		})
		require.NoError(t, err)
		require.Equal(t, "http://cdn.test/blob", post.ImageURL)
		require.Equal(t, 1, objects.uploads)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
			Title: "t", Content: "c", Category: "Homeopathy",
		})
		require.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
			Title: "   ", Content: "c", Category: "Fitness",
		})
		require.ErrorIs(t, err, ErrInvalidPost)
	})
}

func TestEditPostOwnership(t *testing.T) {
	st := newTestStore(t)
	auth := &AuthService{Store: st, Signer: newTestSigner(t)}
	posts := &PostService{Store: st, Objects: &memObjects{}}
	ctx := context.Background()

	author := registerUser(t, auth, "alice")
	other := registerUser(t, auth, "bob")

	post, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title: "original", Content: "body", Category: "Heart",
	})
	require.NoError(t, err)

	edited, err := posts.EditPost(ctx, author.ID, post.ID, EditPostInput{
		Title:    strptr("updated"),
		Category: strptr("Lungs"),
	})
	require.NoError(t, err)
	require.Equal(t, "updated", edited.Title)
	require.Equal(t, "body", edited.Content)
	require.Equal(t, domain.CategoryLungs, edited.Category)
	require.True(t, edited.LastUpdated.After(post.LastUpdated) || edited.LastUpdated.Equal(post.LastUpdated))

	t.Run("non-author rejected", func(t *testing.T) {
		_, err := posts.EditPost(ctx, other.ID, post.ID, EditPostInput{Title: strptr("hijack")})
		require.ErrorIs(t, err, ErrNotPostAuthor)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := posts.EditPost(ctx, author.ID, "01ZZZZZZZZZZZZZZZZZZZZZZZZ", EditPostInput{})
		require.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestDeletePostOwnership(t *testing.T) {
	st := newTestStore(t)
	auth := &AuthService{Store: st, Signer: newTestSigner(t)}
	posts := &PostService{Store: st, Objects: &memObjects{}}
	ctx := context.Background()

	author := registerUser(t, auth, "alice")
	other := registerUser(t, auth, "bob")

	post, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title: "doomed", Content: "body", Category: "Cancer",
	})
	require.NoError(t, err)

	require.ErrorIs(t, posts.DeletePost(ctx, other.ID, post.ID), ErrNotPostAuthor)
	require.NoError(t, posts.DeletePost(ctx, author.ID, post.ID))
	require.ErrorIs(t, posts.DeletePost(ctx, author.ID, post.ID), ErrPostNotFound)
}

func TestListPostsSortDepth(t *testing.T) {
	st := newTestStore(t)
	auth := &AuthService{Store: st, Signer: newTestSigner(t)}
	posts := &PostService{Store: st, Objects: &memObjects{}}
	comments := &CommentService{Store: st}
	votes := &VoteService{Store: st}
	ctx := context.Background()

	author := registerUser(t, auth, "alice")
	voter := registerUser(t, auth, "bob")

	first, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title: "first", Content: "body", Category: "Nutrition",
	})
	require.NoError(t, err)

	second, err := posts.CreatePost(ctx, author.ID, CreatePostInput{
		Title: "second", Content: "body", Category: "Nutrition",
	})
	require.NoError(t, err)

	comment, err := comments.CreateComment(ctx, voter.ID, first.ID, "interesting")
	require.NoError(t, err)
	_, err = comments.CreateReply(ctx, author.ID, comment.ID, "thanks")
	require.NoError(t, err)

	_, err = votes.Cast(ctx, first.ID, voter.ID, domain.VoteUp)
	require.NoError(t, err)

	recent, err := posts.ListPosts(ctx, store.SortRecent)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, second.ID, recent[0].ID)
	// Deep population resolves reply authors.
	require.NotNil(t, recent[1].Comments[0].Replies[0].Author)

	voted, err := posts.ListPosts(ctx, store.SortMostVoted)
	require.NoError(t, err)
	require.Equal(t, first.ID, voted[0].ID)
	// Shallow population leaves reply authors unresolved.
	require.Nil(t, voted[0].Comments[0].Replies[0].Author)
}
