package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/slogx"
)

var ErrAlreadyVoted = errors.New("already voted in this direction")

// VoteService applies the mutually exclusive vote rules. A user holds at
// most one vote per post; repeating the same direction is rejected and
// the opposite direction switches the vote. Membership and counters move
// together in one transaction.
type VoteService struct {
	Store store.Store
}

// Cast records the user's vote on a post.
func (s *VoteService) Cast(ctx context.Context, postID, userID string, dir domain.VoteDirection) (domain.Post, error) {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Posts().GetPostForUpdate(ctx, postID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		current, err := tx.Votes().GetVote(ctx, postID, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// First vote on this post.
			if err := tx.Votes().CreateVote(ctx, postID, userID, dir); err != nil {
				return err
			}
		case err != nil:
			return err
		case current == dir:
			return ErrAlreadyVoted
		default:
			// Opposite direction: switch sides.
			if err := tx.Votes().SwitchVote(ctx, postID, userID, dir); err != nil {
				return err
			}
		}

		up, down := voteDeltas(current, dir)
		return tx.Posts().AdjustVoteCounts(ctx, postID, up, down)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyVoted) || errors.Is(err, ErrPostNotFound) {
			return domain.Post{}, err
		}
		log.Error("failed to cast vote",
			slog.String("post_id", postID),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return domain.Post{}, err
	}

	log.Debug("vote cast",
		slog.String("post_id", postID),
		slog.String("user_id", userID),
		slog.String("direction", string(dir)),
	)

	post, err := s.Store.Posts().GetPostByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// voteDeltas maps a (previous, new) direction pair to counter deltas.
// previous is "" for a first vote.
func voteDeltas(previous, next domain.VoteDirection) (up, down int) {
	if next == domain.VoteUp {
		up = 1
		if previous == domain.VoteDown {
			down = -1
		}
		return up, down
	}
	down = 1
	if previous == domain.VoteUp {
		up = -1
	}
	return up, down
}
