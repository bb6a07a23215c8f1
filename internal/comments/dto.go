package comments

// CreateCommentRequest carries the body for a new comment.
type CreateCommentRequest struct {
	PostID  int64  `json:"postId" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=2000"`
}
