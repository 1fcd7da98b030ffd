package domain

import "time"

// VoteDirection is one side of the mutually exclusive up/down vote pair.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Post is a categorized discussion entry. UpVotes/DownVotes always equal
// the cardinality of UpVotedBy/DownVotedBy, and no user id is ever in
// both sets; the vote engine maintains both facts in one transaction.
type Post struct {
	ID          string
	AuthorID    string
	Title       string
	Content     string
	Category    Category
	UpVotes     int
	DownVotes   int
	ImageURL    string
	CreatedAt   time.Time
	LastUpdated time.Time

	// Populated fields, filled in by the store on read depending on the
	// requested population depth.
	Author      *Identity
	UpVotedBy   []string
	DownVotedBy []string
	Comments    []Comment
}

// AuthoredBy reports whether actor owns the post. Edit and delete are
// allowed only for the author.
func (p Post) AuthoredBy(actorID string) bool {
	return actorID != "" && p.AuthorID == actorID
}
