package posts

// CreatePostRequest carries the multipart form fields for a new post.
// The image, if any, is stored before the service is called and arrives
// here as its public path.
type CreatePostRequest struct {
	Title string  `validate:"required,max=200"`
	Body  string  `validate:"required"`
	Image *string `validate:"-"`
}
