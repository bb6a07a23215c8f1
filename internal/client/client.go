// Package client is the Go rendition of the social-feed client: it holds
// the session, attaches the bearer token to every protected request, and
// enforces the purge-on-401 rule the mobile and web clients follow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxResponseBytes = 10 << 20

// Client calls the Ripple API on behalf of one session.
type Client struct {
	http    *http.Client
	baseURL string
	session *Session
}

// New constructs a Client bound to the given session.
func New(baseURL string, session *Session) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
	}
}

// Session exposes the injected session.
func (c *Client) Session() *Session {
	return c.session
}

// do executes a request. For protected calls it attaches the stored token;
// if the server answers 401 the session is purged before returning
// ErrSessionExpired, and the request is never retried — retrying against a
// credential the server just rejected can only loop.
func (c *Client) do(req *http.Request, protected bool) ([]byte, int, error) {
	if protected {
		token, ok := c.session.Token()
		if !ok {
			return nil, 0, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("client: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("client: read response: %w", err)
	}

	if protected && resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.Clear()
		return nil, resp.StatusCode, ErrSessionExpired
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, resp.StatusCode, apiError(resp.StatusCode, body)
	}
	return body, resp.StatusCode, nil
}

func apiError(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)
	if envelope.Message == "" {
		envelope.Message = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: envelope.Message}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, protected bool) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("client: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	body, _, err := c.do(req, protected)
	return body, err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(req, true)
	return body, err
}

// Signup registers a new account and stores the returned token and profile.
func (c *Client) Signup(ctx context.Context, form SignupForm) (*User, error) {
	body, err := c.postJSON(ctx, "/api/v1/auth/signup", form, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Token string `json:"token"`
		Data  struct {
			User *User `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: decode signup response: %w", err)
	}
	if resp.Token == "" || resp.Data.User == nil {
		return nil, fmt.Errorf("client: signup response missing token or user")
	}
	if err := c.session.Set(resp.Token, resp.Data.User); err != nil {
		return nil, err
	}
	return resp.Data.User, nil
}

// Login authenticates and stores the returned token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]string{"email": email, "password": password}
	body, err := c.postJSON(ctx, "/api/v1/auth/login", payload, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: decode login response: %w", err)
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("client: login response missing token or user")
	}
	if err := c.session.Set(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout discards the session locally. Stateless tokens need no server
// notification.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me fetches the authenticated user's record.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.get(ctx, "/api/v1/me")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data *User `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: decode me response: %w", err)
	}
	return resp.Data, nil
}

// Feed fetches the post feed.
func (c *Client) Feed(ctx context.Context) ([]Post, error) {
	body, err := c.get(ctx, "/api/v1/posts")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data []Post `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: decode feed response: %w", err)
	}
	return resp.Data, nil
}

// FeedWithComments fetches the feed and each post's comments concurrently.
func (c *Client) FeedWithComments(ctx context.Context) ([]Post, error) {
	feed, err := c.Feed(ctx)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range feed {
		g.Go(func() error {
			comments, err := c.Comments(gctx, feed[i].ID)
			if err != nil {
				return err
			}
			feed[i].Comments = comments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feed, nil
}

// Comments fetches a post's comments.
func (c *Client) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	body, err := c.get(ctx, "/api/v1/comments/post/"+strconv.FormatInt(postID, 10))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data []Comment `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: decode comments response: %w", err)
	}
	return resp.Data, nil
}

// AddComment posts a comment.
func (c *Client) AddComment(ctx context.Context, postID int64, content string) (*Comment, error) {
	payload := map[string]any{"postId": postID, "content": content}
	body, err := c.postJSON(ctx, "/api/v1/comments", payload, true)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data *Comment `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: decode comment response: %w", err)
	}
	return resp.Data, nil
}

// CreatePost publishes a post. image may be nil; when set, its content is
// attached as a multipart file part named "image".
func (c *Client) CreatePost(ctx context.Context, title, body string, image io.Reader, imageName string) (*Post, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("title", title); err != nil {
		return nil, err
	}
	if err := form.WriteField("body", body); err != nil {
		return nil, err
	}
	if image != nil {
		part, err := form.CreateFormFile("image", filepath.Base(imageName))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, fmt.Errorf("client: copy image: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/posts", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	respBody, _, err := c.do(req, true)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data *Post `json:"data"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("client: decode post response: %w", err)
	}
	return resp.Data, nil
}
