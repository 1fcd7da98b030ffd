package sqlite

import (
	"context"

	"github.com/wellfora/wellfora/internal/forum/domain"
)

type commentsRepo struct {
	db dbtx
}

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
	       u.username, u.email, u.image_url
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt)
	return err
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id)

	c, err := scanComment(row)
	if err != nil {
		return domain.Comment{}, err
	}
	c.Replies, err = r.ListReplies(ctx, c.ID)
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

func (r *commentsRepo) ListCommentsForPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	comments, err := r.listComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].Replies, err = r.ListReplies(ctx, comments[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// listCommentsShallow resolves comment authors but leaves replies without
// author identities, matching the most-voted listing contract.
func (r *commentsRepo) listCommentsShallow(ctx context.Context, postID string) ([]domain.Comment, error) {
	comments, err := r.listComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].Replies, err = r.listRepliesBare(ctx, comments[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return comments, nil
}

func (r *commentsRepo) listComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE c.post_id = ? ORDER BY c.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) CreateReply(ctx context.Context, reply domain.Reply) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO replies (id, comment_id, author_id, content, last_updated)
		 VALUES (?, ?, ?, ?, ?)`,
		reply.ID, reply.CommentID, reply.AuthorID, reply.Content, reply.LastUpdated)
	return err
}

func (r *commentsRepo) ListReplies(ctx context.Context, commentID string) ([]domain.Reply, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.comment_id, r.author_id, r.content, r.last_updated,
		        u.username, u.email, u.image_url
		 FROM replies r
		 JOIN users u ON u.id = r.author_id
		 WHERE r.comment_id = ? ORDER BY r.last_updated, r.id`, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []domain.Reply
	for rows.Next() {
		var rep domain.Reply
		var author domain.Identity
		if err := rows.Scan(&rep.ID, &rep.CommentID, &rep.AuthorID, &rep.Content, &rep.LastUpdated,
			&author.Username, &author.Email, &author.ImageURL); err != nil {
			return nil, err
		}
		author.ID = rep.AuthorID
		rep.Author = &author
		replies = append(replies, rep)
	}
	return replies, rows.Err()
}

func (r *commentsRepo) listRepliesBare(ctx context.Context, commentID string) ([]domain.Reply, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, comment_id, author_id, content, last_updated
		 FROM replies WHERE comment_id = ? ORDER BY last_updated, id`, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []domain.Reply
	for rows.Next() {
		var rep domain.Reply
		if err := rows.Scan(&rep.ID, &rep.CommentID, &rep.AuthorID, &rep.Content, &rep.LastUpdated); err != nil {
			return nil, err
		}
		replies = append(replies, rep)
	}
	return replies, rows.Err()
}

func scanComment(row rowScanner) (domain.Comment, error) {
	var c domain.Comment
	var author domain.Identity
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt,
		&author.Username, &author.Email, &author.ImageURL)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	author.ID = c.AuthorID
	c.Author = &author
	return c, nil
}
