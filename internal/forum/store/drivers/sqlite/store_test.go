package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		ImageURL:     domain.DefaultProfileImageURL,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedPost(t *testing.T, s *Store, authorID, title string) domain.Post {
	t.Helper()

	now := time.Now().UTC()
	p := domain.Post{
		ID:          idx.New().String(),
		AuthorID:    authorID,
		Title:       title,
		Content:     "content of " + title,
		Category:    domain.CategoryFitness,
		CreatedAt:   now,
		LastUpdated: now,
	}
	require.NoError(t, s.Posts().CreatePost(context.Background(), p))
	return p
}

func TestUsersRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice")

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.Email, got.Email)

	got, err = s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Duplicate username collides on the unique index.
	dup := u
	dup.ID = idx.New().String()
	dup.Email = "other@example.com"
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	users, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestPostsRepoPopulation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "alice")
	voter := seedUser(t, s, "bob")
	p := seedPost(t, s, author.ID, "first")

	require.NoError(t, s.Votes().CreateVote(ctx, p.ID, voter.ID, domain.VoteUp))
	require.NoError(t, s.Posts().AdjustVoteCounts(ctx, p.ID, 1, 0))

	c := domain.Comment{
		ID:        idx.New().String(),
		PostID:    p.ID,
		AuthorID:  voter.ID,
		Content:   "nice post",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Comments().CreateComment(ctx, c))

	got, err := s.Posts().GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	require.Equal(t, "alice", got.Author.Username)
	require.Equal(t, 1, got.UpVotes)
	require.Equal(t, []string{voter.ID}, got.UpVotedBy)
	require.Empty(t, got.DownVotedBy)
	require.Len(t, got.Comments, 1)
	require.NotNil(t, got.Comments[0].Author)
	require.Equal(t, "bob", got.Comments[0].Author.Username)

	_, err = s.Posts().GetPostByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostsRepoListOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "alice")
	voter := seedUser(t, s, "bob")

	older := seedPost(t, s, author.ID, "older")
	newer := seedPost(t, s, author.ID, "newer")
	newer.LastUpdated = older.LastUpdated.Add(time.Minute)
	require.NoError(t, s.Posts().UpdatePost(ctx, newer))

	// The older post gets the vote, so sort orders diverge.
	require.NoError(t, s.Votes().CreateVote(ctx, older.ID, voter.ID, domain.VoteUp))
	require.NoError(t, s.Posts().AdjustVoteCounts(ctx, older.ID, 1, 0))

	byRecent, err := s.Posts().ListPosts(ctx, store.SortRecent)
	require.NoError(t, err)
	require.Len(t, byRecent, 2)
	require.Equal(t, newer.ID, byRecent[0].ID)

	byVotes, err := s.Posts().ListPosts(ctx, store.SortMostVoted)
	require.NoError(t, err)
	require.Equal(t, older.ID, byVotes[0].ID)

	mine, err := s.Posts().ListPostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestPostsRepoDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "alice")
	p := seedPost(t, s, author.ID, "doomed")

	require.NoError(t, s.Votes().CreateVote(ctx, p.ID, author.ID, domain.VoteDown))
	require.NoError(t, s.Comments().CreateComment(ctx, domain.Comment{
		ID: idx.New().String(), PostID: p.ID, AuthorID: author.ID,
		Content: "bye", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, s.Posts().DeletePost(ctx, p.ID))
	require.ErrorIs(t, s.Posts().DeletePost(ctx, p.ID), store.ErrNotFound)

	up, down, err := s.Votes().ListVoters(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, up)
	require.Empty(t, down)
}

func TestVotesRepoTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "alice")
	voter := seedUser(t, s, "bob")
	p := seedPost(t, s, author.ID, "voted")

	_, err := s.Votes().GetVote(ctx, p.ID, voter.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Votes().CreateVote(ctx, p.ID, voter.ID, domain.VoteUp))
	require.ErrorIs(t, s.Votes().CreateVote(ctx, p.ID, voter.ID, domain.VoteDown),
		store.ErrAlreadyExists)

	dir, err := s.Votes().GetVote(ctx, p.ID, voter.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VoteUp, dir)

	require.NoError(t, s.Votes().SwitchVote(ctx, p.ID, voter.ID, domain.VoteDown))
	dir, err = s.Votes().GetVote(ctx, p.ID, voter.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VoteDown, dir)

	up, down, err := s.Votes().ListVoters(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, up)
	require.Equal(t, []string{voter.ID}, down)
}

func TestCommentsRepoReplies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "alice")
	p := seedPost(t, s, author.ID, "discussed")

	c := domain.Comment{
		ID: idx.New().String(), PostID: p.ID, AuthorID: author.ID,
		Content: "top level", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Comments().CreateComment(ctx, c))

	require.NoError(t, s.Comments().CreateReply(ctx, domain.Reply{
		ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", CommentID: c.ID,
		AuthorID: author.ID, Content: "a reply", LastUpdated: time.Now().UTC(),
	}))

	got, err := s.Comments().GetCommentByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 1)
	require.NotNil(t, got.Replies[0].Author)
	require.Equal(t, "alice", got.Replies[0].Author.Username)

	list, err := s.Comments().ListCommentsForPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Replies, 1)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "alice")
	p := seedPost(t, s, author.ID, "atomic")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Votes().CreateVote(ctx, p.ID, author.ID, domain.VoteUp); err != nil {
			return err
		}
		if err := tx.Posts().AdjustVoteCounts(ctx, p.ID, 1, 0); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := s.Posts().GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	require.Zero(t, got.UpVotes)
	require.Empty(t, got.UpVotedBy)
}
