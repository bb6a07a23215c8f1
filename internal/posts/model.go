package posts

import "time"

// Author is the subset of the user record embedded in feed responses.
// The JSON key "userId" matches what the existing clients render.
type Author struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Username string `json:"username"`
}

// Post is a feed entry with an optional attached image.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"-"`
	Author    *Author   `json:"userId,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
