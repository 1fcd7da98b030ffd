package domain

import "time"

// DefaultProfileImageURL is assigned to users who register without a
// profile picture.
const DefaultProfileImageURL = "https://cdn-icons-png.flaticon.com/512/6596/6596121.png"

// User is a persisted account. PasswordHash never leaves the auth
// boundary: it is stripped before a User becomes an Identity.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt encoded
	ImageURL     string
	CreatedAt    time.Time
}

// Identity is the public subset of a user, carried in session tokens and
// API responses.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url,omitempty"`
}

// Identity strips the credential fields from a user.
func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		ImageURL: u.ImageURL,
	}
}
