package posts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplefeed/ripple/internal/shared"
	"github.com/ripplefeed/ripple/internal/uploads"
)

type failingRepo struct {
	err error
}

func (f *failingRepo) Create(context.Context, Post) (int64, error) { return 0, f.err }
func (f *failingRepo) Get(context.Context, int64) (*Post, error)   { return nil, f.err }
func (f *failingRepo) List(context.Context) ([]Post, error)        { return nil, f.err }

func newHandlerRouter(t *testing.T, repo Repository, maxBytes int64) (http.Handler, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := t.TempDir()
	store, err := uploads.NewStore(logger, dir, maxBytes)
	require.NoError(t, err)

	handler := NewHandler(logger, NewService(repo), store)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUserID(req.Context(), 7)))
		})
	})
	r.Route("/posts", handler.MountRoutes)
	return r, dir
}

func multipartBody(t *testing.T, title, body, imageName string, imageContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", title))
	require.NoError(t, form.WriteField("body", body))
	if imageName != "" {
		part, err := form.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(imageContent)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return &buf, form.FormDataContentType()
}

func postMultipart(router http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestCreateWithImageStoresFile(t *testing.T) {
	router, dir := newHandlerRouter(t, newMockRepository(), 1<<20)

	body, contentType := multipartBody(t, "Holiday", "at the beach", "pic.jpg", []byte("jpeg bytes"))
	rec := postMultipart(router, body, contentType)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, uploadedFiles(t, dir), 1)
}

func TestCreateRejectsOversizedImage(t *testing.T) {
	router, dir := newHandlerRouter(t, newMockRepository(), 8)

	body, contentType := multipartBody(t, "Big", "too big", "big.jpg", []byte("0123456789abcdef"))
	rec := postMultipart(router, body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"fail","message":"Image too large"}`, rec.Body.String())
	assert.Empty(t, uploadedFiles(t, dir))
}

func TestCreateRejectsOversizedRequestBody(t *testing.T) {
	// The body limit is the image cap plus form overhead; a request far
	// beyond it is cut off before any field is parsed.
	router, dir := newHandlerRouter(t, newMockRepository(), 8)

	huge := bytes.Repeat([]byte("a"), 2<<20)
	body, contentType := multipartBody(t, "Huge", "way too big", "huge.jpg", huge)
	rec := postMultipart(router, body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"fail","message":"Upload too large"}`, rec.Body.String())
	assert.Empty(t, uploadedFiles(t, dir))
}

func TestCreateRemovesImageWhenInsertFails(t *testing.T) {
	router, dir := newHandlerRouter(t, &failingRepo{err: errors.New("insert failed")}, 1<<20)

	body, contentType := multipartBody(t, "Holiday", "at the beach", "pic.jpg", []byte("jpeg bytes"))
	rec := postMultipart(router, body, contentType)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// The stored image does not outlive the failed post.
	assert.Empty(t, uploadedFiles(t, dir))
}

func TestCreateMissingFields(t *testing.T) {
	router, _ := newHandlerRouter(t, newMockRepository(), 1<<20)

	body, contentType := multipartBody(t, "", "no title", "", nil)
	rec := postMultipart(router, body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Title and body are required"))
}
