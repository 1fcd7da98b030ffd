package store

import (
	"context"
	"errors"

	"github.com/wellfora/wellfora/internal/forum/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// PostSort selects the ordering (and population depth) for post listings.
type PostSort string

const (
	// SortRecent orders by last_updated descending with deep comment
	// population (comment authors and reply authors resolved).
	SortRecent PostSort = "recent"

	// SortMostVoted orders by up votes descending, down votes ascending,
	// with shallow comment population (author ids only). The depth split
	// mirrors the public API contract and is intentional.
	SortMostVoted PostSort = "mostVoted"
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Posts() Posts
	Votes() Votes
	Comments() Comments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., a vote
	// transition). The caller MUST call Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used during registration conflict checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists on a username or email collision.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by id (creation order).
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Posts interface {
	// CreatePost inserts a new post with zeroed vote counts.
	CreatePost(ctx context.Context, p domain.Post) error

	// GetPostByID returns a single post. Deep population: author, vote
	// sets, comments with their authors and reply authors.
	GetPostByID(ctx context.Context, id string) (domain.Post, error)

	// GetPostForUpdate returns the bare post row without population.
	// Use inside transactions that are about to mutate it.
	GetPostForUpdate(ctx context.Context, id string) (domain.Post, error)

	// ListPosts returns all posts in the given order. SortMostVoted
	// populates comments shallowly, everything else deeply.
	ListPosts(ctx context.Context, sort PostSort) ([]domain.Post, error)

	// ListPostsByAuthor returns a user's posts, deeply populated,
	// ordered by last_updated descending.
	ListPostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)

	// UpdatePost writes title, content, category, image URL and bumps
	// last_updated.
	UpdatePost(ctx context.Context, p domain.Post) error

	// DeletePost removes the post; votes and comments cascade per schema.
	DeletePost(ctx context.Context, id string) error

	// AdjustVoteCounts applies deltas to the stored counters. Deltas must
	// mirror a membership change made in the same transaction.
	AdjustVoteCounts(ctx context.Context, postID string, upDelta, downDelta int) error
}

type Votes interface {
	// GetVote returns the direction of a user's vote on a post, or
	// ErrNotFound if the user has not voted.
	GetVote(ctx context.Context, postID, userID string) (domain.VoteDirection, error)

	// CreateVote records a first vote. The (post, user) primary key makes
	// double membership impossible at the schema level.
	CreateVote(ctx context.Context, postID, userID string, dir domain.VoteDirection) error

	// SwitchVote flips an existing vote to the opposite direction.
	SwitchVote(ctx context.Context, postID, userID string, dir domain.VoteDirection) error

	// ListVoters returns the up and down vote sets for a post.
	ListVoters(ctx context.Context, postID string) (up, down []string, err error)
}

type Comments interface {
	// CreateComment inserts a comment; ordering within the post follows
	// the ULID id.
	CreateComment(ctx context.Context, c domain.Comment) error

	// GetCommentByID returns a comment with its author and replies
	// (reply authors resolved).
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// ListCommentsForPost returns a post's comments in creation order
	// with authors resolved.
	ListCommentsForPost(ctx context.Context, postID string) ([]domain.Comment, error)

	// CreateReply appends an embedded reply to a comment.
	CreateReply(ctx context.Context, r domain.Reply) error

	// ListReplies returns a comment's replies in creation order with
	// authors resolved.
	ListReplies(ctx context.Context, commentID string) ([]domain.Reply, error)
}
