package sqlite

import (
	"context"
	"time"

	"github.com/wellfora/wellfora/internal/forum/domain"
)

type votesRepo struct {
	db dbtx
}

func (r *votesRepo) GetVote(ctx context.Context, postID, userID string) (domain.VoteDirection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT direction FROM post_votes WHERE post_id = ? AND user_id = ?`,
		postID, userID)

	var dir string
	if err := row.Scan(&dir); err != nil {
		return "", mapNotFound(err)
	}
	return domain.VoteDirection(dir), nil
}

func (r *votesRepo) CreateVote(ctx context.Context, postID, userID string, dir domain.VoteDirection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_votes (post_id, user_id, direction, created_at)
		 VALUES (?, ?, ?, ?)`,
		postID, userID, string(dir), time.Now().UTC())
	return mapConstraint(err)
}

func (r *votesRepo) SwitchVote(ctx context.Context, postID, userID string, dir domain.VoteDirection) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE post_votes SET direction = ? WHERE post_id = ? AND user_id = ?`,
		string(dir), postID, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *votesRepo) ListVoters(ctx context.Context, postID string) (up, down []string, err error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, direction FROM post_votes WHERE post_id = ? ORDER BY created_at, user_id`,
		postID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID, dir string
		if err := rows.Scan(&userID, &dir); err != nil {
			return nil, nil, err
		}
		if domain.VoteDirection(dir) == domain.VoteUp {
			up = append(up, userID)
		} else {
			down = append(down, userID)
		}
	}
	return up, down, rows.Err()
}
