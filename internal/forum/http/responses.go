package http

import (
	"time"

	"github.com/wellfora/wellfora/internal/forum/domain"
)

// PostResponse is the wire shape of a post. The vote-set slices and
// comments are present or empty depending on the population depth of the
// endpoint that produced it.
type PostResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Category    string            `json:"category"`
	Author      *domain.Identity  `json:"author,omitempty"`
	UpVotes     int               `json:"up_votes"`
	DownVotes   int               `json:"down_votes"`
	UpVotedBy   []string          `json:"up_voted_by"`
	DownVotedBy []string          `json:"down_voted_by"`
	ImageURL    string            `json:"image_url,omitempty"`
	Comments    []CommentResponse `json:"comments"`
	CreatedAt   time.Time         `json:"created_at"`
	LastUpdated time.Time         `json:"last_updated"`
}

type CommentResponse struct {
	ID        string           `json:"id"`
	PostID    string           `json:"post_id"`
	AuthorID  string           `json:"author_id"`
	Author    *domain.Identity `json:"author,omitempty"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
	Replies   []ReplyResponse  `json:"replies"`
}

type ReplyResponse struct {
	ID          string           `json:"id"`
	AuthorID    string           `json:"author_id"`
	Author      *domain.Identity `json:"author,omitempty"`
	Content     string           `json:"content"`
	LastUpdated time.Time        `json:"last_updated"`
}

func toPostResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Category:    string(p.Category),
		Author:      p.Author,
		UpVotes:     p.UpVotes,
		DownVotes:   p.DownVotes,
		UpVotedBy:   emptyIfNil(p.UpVotedBy),
		DownVotedBy: emptyIfNil(p.DownVotedBy),
		ImageURL:    p.ImageURL,
		Comments:    toCommentResponses(p.Comments),
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated,
	}
}

func toPostResponses(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toCommentResponse(c domain.Comment) CommentResponse {
	replies := make([]ReplyResponse, 0, len(c.Replies))
	for _, r := range c.Replies {
		replies = append(replies, ReplyResponse{
			ID:          r.ID,
			AuthorID:    r.AuthorID,
			Author:      r.Author,
			Content:     r.Content,
			LastUpdated: r.LastUpdated,
		})
	}
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Replies:   replies,
	}
}

func toCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
