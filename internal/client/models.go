package client

import "time"

// User mirrors the server's user payload. There is no password field in any
// server response, so none exists here either.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	BirthDate string    `json:"birthDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the projection embedded in feed entries.
type Author struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Username string `json:"username"`
}

// Post is a feed entry.
type Post struct {
	ID        int64     `json:"id"`
	Author    *Author   `json:"userId,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// Comments is populated by FeedWithComments only.
	Comments []Comment `json:"-"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Author    *Author   `json:"userId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignupForm carries the registration fields.
type SignupForm struct {
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate"`
}
