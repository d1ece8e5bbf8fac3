package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "research-tools/backend/pkg/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetBytes_SetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	c := New(nil, "research-tool/1.0", 1024)
	resp, err := c.GetBytes(context.Background(), srv.URL, map[string]string{"Accept": "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "research-tool/1.0", gotUA)
	assert.Equal(t, "text/plain", gotAccept)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.ContentType)
	assert.Equal(t, "ok", string(resp.Body))
}

func TestGetBytes_BodyIsBounded(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	})

	c := New(nil, "ua", 10)
	resp, err := c.GetBytes(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Body, 10)
}

func TestGetBytes_NonSuccessStatus(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorCode":404}`))
	})

	c := New(nil, "ua", 1024)
	resp, err := c.GetBytes(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "errorCode")

	var statusErr *apperrors.ErrHTTPStatus
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestGetBytes_ContextCancelled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := New(nil, "ua", 1024)
	_, err := c.GetBytes(ctx, srv.URL, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))
}

func TestGetBytes_BadURL(t *testing.T) {
	c := New(nil, "ua", 1024)
	_, err := c.GetBytes(context.Background(), "://nope", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInput))
}

func TestGetJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Go"}]}}`))
		default:
			_, _ = w.Write([]byte(`<html>not json</html>`))
		}
	})

	c := New(nil, "ua", 1024)

	doc, err := c.GetJSON(context.Background(), srv.URL+"/ok", nil)
	require.NoError(t, err)
	assert.Equal(t, "Go", doc.Get("query.search.0.title").String())

	_, err = c.GetJSON(context.Background(), srv.URL+"/html", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeParse))
}

func TestGetText(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><head><title>T</title></head><body><p>Hello</p><p>World</p></body></html>"))
		case "/sniffed":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("<!DOCTYPE html><p>Sniffed</p>"))
		default:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("plain <b>text</b>"))
		}
	})

	c := New(nil, "ua", 1<<16)

	page, err := c.GetText(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.True(t, page.HTML)
	assert.Equal(t, "Hello \n\nWorld", page.Text)
	assert.Contains(t, page.Raw, "<title>T</title>")

	page, err = c.GetText(context.Background(), srv.URL+"/sniffed")
	require.NoError(t, err)
	assert.True(t, page.HTML)
	assert.Equal(t, "Sniffed", page.Text)

	page, err = c.GetText(context.Background(), srv.URL+"/plain")
	require.NoError(t, err)
	assert.False(t, page.HTML)
	assert.Equal(t, "plain <b>text</b>", page.Text)
}
