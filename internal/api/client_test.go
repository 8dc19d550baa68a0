package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkt/internal/apitest"
	"bkt/internal/models"
)

func newTestClient(t *testing.T, buckets ...string) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(buckets...)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(srv.URL, WithLogger(log)), srv
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL)

	c = NewClient("http://example.com:5000/")
	assert.Equal(t, "http://example.com:5000", c.BaseURL)
	assert.Equal(t, "http://example.com:5000/files/my%20bucket/a%2Fb.png", c.endpoint("files", "my bucket", "a/b.png"))
}

func TestBuckets(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, "photos")

	bucket, err := c.CreateBucket(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket.Name)

	buckets, err := c.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bucket{{Name: "docs"}, {Name: "photos"}}, buckets)

	_, err = c.CreateBucket(ctx, "docs")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)

	_, err = c.CreateBucket(ctx, "")
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestClient(t, "photos")
	srv.Put("photos", "a.png", bytes.Repeat([]byte{1}, 2048), "vacation")

	uploaded, err := c.UploadFile(ctx, "photos", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", uploaded.Name)
	assert.Equal(t, int64(5), uploaded.Size)

	files, err := c.ListFiles(ctx, "photos")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.png", files[0].Name)
	assert.Equal(t, int64(2048), files[0].Size)
	assert.Equal(t, []string{"vacation"}, files[0].Tags)
	assert.Equal(t, "notes.txt", files[1].Name)

	content, err := c.DownloadFile(ctx, "photos", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)

	ack, err := c.DeleteFile(ctx, "photos", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "File deleted", ack.Message)

	files, err = c.ListFiles(ctx, "photos")
	require.NoError(t, err)
	for _, f := range files {
		assert.NotEqual(t, "notes.txt", f.Name)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, "photos")

	_, err := c.ListFiles(ctx, "missing")
	assert.True(t, IsNotFound(err))

	_, err = c.DeleteFile(ctx, "photos", "nope.txt")
	assert.True(t, IsNotFound(err))

	_, err = c.DownloadFile(ctx, "photos", "nope.txt")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNetworkError(err))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewClient(baseURL)
	_, err := c.ListBuckets(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.False(t, IsNotFound(err))
}

func TestServerError(t *testing.T) {
	c, srv := newTestClient(t, "photos")
	srv.FailWith(http.StatusInternalServerError)

	_, err := c.UploadFile(context.Background(), "photos", "a.txt", strings.NewReader("x"))
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, http.MethodPost, httpErr.Method)
}

func TestInvalidDescriptors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/nosize":
			_, _ = w.Write([]byte(`[{"name":"a.png","url":"http://x/a.png"}]`))
		case "/files/nourl":
			_, _ = w.Write([]byte(`[{"name":"a.png","size":3}]`))
		case "/buckets":
			_, _ = w.Write([]byte(`[{"name":""}]`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.ListFiles(ctx, "nosize")
	assert.ErrorIs(t, err, models.ErrInvalidFile)

	_, err = c.ListFiles(ctx, "nourl")
	assert.ErrorIs(t, err, models.ErrInvalidFile)

	_, err = c.ListFiles(ctx, "garbage")
	assert.ErrorIs(t, err, models.ErrInvalidFile)

	_, err = c.ListBuckets(ctx)
	assert.ErrorIs(t, err, models.ErrInvalidBucket)
}

func TestUploadSendsMultipartField(t *testing.T) {
	var gotName, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		part, header, err := r.FormFile("file")
		if err == nil {
			b, _ := io.ReadAll(part)
			gotName, gotBody = header.Filename, string(b)
		}
		_, _ = w.Write([]byte(`{"name":"x.txt","size":4,"url":"http://x/x.txt"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).UploadFile(context.Background(), "b", "x.txt", strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotType, "multipart/form-data"))
	assert.Equal(t, "x.txt", gotName)
	assert.Equal(t, "data", gotBody)
}

func TestDeletePlainAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	}))
	defer srv.Close()

	ack, err := NewClient(srv.URL).DeleteFile(context.Background(), "b", "x.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok", ack.Raw)
	assert.Empty(t, ack.Message)
}
