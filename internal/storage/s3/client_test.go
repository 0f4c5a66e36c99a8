package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/config"
	"docanalyzer/internal/port"
	"docanalyzer/internal/storage/s3"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"etag-123"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newClient(t *testing.T, endpoint string) *s3.Client {
	t.Helper()
	client, err := s3.NewClient(context.Background(), &config.S3Config{
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: "test-access",
		SecretKey: "test-secret",
	}, "docs")
	require.NoError(t, err)
	return client
}

func TestPut(t *testing.T) {
	srv, requests := newFakeS3(t)
	client := newClient(t, srv.URL)
	data := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02}

	err := client.Put(context.Background(), port.DocumentImage{
		Key:         "documents/a.png",
		ContentType: "image/png",
		Data:        data,
	})
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/docs/documents/a.png", reqs[0].path)
	assert.Equal(t, "image/png", reqs[0].contentType)
}

func TestPut_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	client := newClient(t, srv.URL)

	err := client.Put(context.Background(), port.DocumentImage{Key: "documents/a.png", Data: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documents/a.png")
}

func TestRemove(t *testing.T) {
	srv, requests := newFakeS3(t)
	client := newClient(t, srv.URL)

	require.NoError(t, client.Remove(context.Background(), "documents/a.png"))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].method)
	assert.Equal(t, "/docs/documents/a.png", reqs[0].path)
}

func TestSignedURL(t *testing.T) {
	client := newClient(t, "http://localhost:9000")

	raw, err := client.SignedURL(context.Background(), "documents/a.png", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/docs/documents/a.png", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
