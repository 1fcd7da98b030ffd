package sqlite

import (
	"context"
	"database/sql"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
)

type postsRepo struct {
	db dbtx
}

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.content, p.category,
	       p.up_votes, p.down_votes, p.image_url, p.created_at, p.last_updated,
	       u.username, u.email, u.image_url
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, title, content, category,
		                    up_votes, down_votes, image_url, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?, ?)`,
		p.ID, p.AuthorID, p.Title, p.Content, string(p.Category),
		p.ImageURL, p.CreatedAt, p.LastUpdated)
	return err
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id)

	p, err := scanPost(row)
	if err != nil {
		return domain.Post{}, err
	}
	if err := r.populate(ctx, &p, true); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (r *postsRepo) GetPostForUpdate(ctx context.Context, id string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, title, content, category,
		        up_votes, down_votes, image_url, created_at, last_updated
		 FROM posts WHERE id = ?`, id)

	var p domain.Post
	var category string
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &category,
		&p.UpVotes, &p.DownVotes, &p.ImageURL, &p.CreatedAt, &p.LastUpdated)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	p.Category = domain.Category(category)
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context, sort store.PostSort) ([]domain.Post, error) {
	order := `ORDER BY p.last_updated DESC`
	deep := true
	if sort == store.SortMostVoted {
		order = `ORDER BY p.up_votes DESC, p.down_votes ASC`
		deep = false
	}

	rows, err := r.db.QueryContext(ctx, postSelect+` `+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if err := r.populate(ctx, &posts[i], deep); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *postsRepo) ListPostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		postSelect+` WHERE p.author_id = ? ORDER BY p.last_updated DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if err := r.populate(ctx, &posts[i], true); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *postsRepo) UpdatePost(ctx context.Context, p domain.Post) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, category = ?, image_url = ?, last_updated = ?
		 WHERE id = ?`,
		p.Title, p.Content, string(p.Category), p.ImageURL, p.LastUpdated, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postsRepo) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postsRepo) AdjustVoteCounts(ctx context.Context, postID string, upDelta, downDelta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET up_votes = up_votes + ?, down_votes = down_votes + ? WHERE id = ?`,
		upDelta, downDelta, postID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// populate fills the author identity, vote sets, and comments of a post.
// Deep population also resolves comment and reply authors.
func (r *postsRepo) populate(ctx context.Context, p *domain.Post, deep bool) error {
	votes := &votesRepo{db: r.db}
	up, down, err := votes.ListVoters(ctx, p.ID)
	if err != nil {
		return err
	}
	p.UpVotedBy = up
	p.DownVotedBy = down

	comments := &commentsRepo{db: r.db}
	if deep {
		p.Comments, err = comments.ListCommentsForPost(ctx, p.ID)
	} else {
		p.Comments, err = comments.listCommentsShallow(ctx, p.ID)
	}
	return err
}

func scanPost(row rowScanner) (domain.Post, error) {
	var p domain.Post
	var category string
	var author domain.Identity

	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &category,
		&p.UpVotes, &p.DownVotes, &p.ImageURL, &p.CreatedAt, &p.LastUpdated,
		&author.Username, &author.Email, &author.ImageURL)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}

	p.Category = domain.Category(category)
	author.ID = p.AuthorID
	p.Author = &author
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
