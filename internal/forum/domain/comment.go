package domain

import "time"

// Comment belongs to a post and holds an ordered collection of embedded
// replies. Comments have no edit or delete semantics.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time

	Author  *Identity
	Replies []Reply
}

// Reply is embedded in its parent comment. Replies carry their own
// identifier (a UUID, distinct from the ULIDs used for top-level
// entities) and their own last-updated timestamp.
type Reply struct {
	ID          string
	CommentID   string
	AuthorID    string
	Content     string
	LastUpdated time.Time

	Author *Identity
}
