// Package webclient wraps net/http with the conventions every tool shares:
// a fixed User-Agent, a body size cap and typed errors for non-2xx answers.
package webclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"research-tools/backend/internal/htmltext"
	apperrors "research-tools/backend/pkg/errors"
	"research-tools/backend/pkg/logger"
)

// Client performs one blocking GET per call.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
	logger    *zap.Logger
}

// Response is a fully read upstream answer.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Page is a fetched document with its readable text.
type Page struct {
	URL         string
	ContentType string
	Raw         string
	Text        string
	HTML        bool
}

// New creates a client. A nil httpClient gets a 30 second timeout.
func New(httpClient *http.Client, userAgent string, maxBytes int64) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:      httpClient,
		userAgent: userAgent,
		maxBytes:  maxBytes,
		logger:    logger.Named("webclient"),
	}
}

// HTTPClient exposes the underlying client for SDKs that take one.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// UserAgent returns the User-Agent sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// GetBytes fetches rawURL. On a non-2xx status both the response and an
// *errors.ErrHTTPStatus are returned so callers can inspect the body.
func (c *Client) GetBytes(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewInvalidArgument("url", err.Error())
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := apperrors.FromContext(ctx, "GET "+rawURL); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.NewRequestFailed(rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, apperrors.NewRequestFailed(rawURL, err)
	}

	c.logger.Debug("Fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)

	out := &Response{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, apperrors.NewHTTPStatus(rawURL, resp.StatusCode)
	}
	return out, nil
}

// GetJSON fetches rawURL and checks that the body is a JSON document.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string) (gjson.Result, error) {
	h := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		h[k] = v
	}

	resp, err := c.GetBytes(ctx, rawURL, h)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, apperrors.NewParseFailed("json", errors.New("body is not valid JSON"))
	}
	return gjson.ParseBytes(resp.Body), nil
}

// GetText fetches rawURL and returns its readable text. HTML bodies are run
// through htmltext.Extract; anything else is returned as is.
func (c *Client) GetText(ctx context.Context, rawURL string) (*Page, error) {
	resp, err := c.GetBytes(ctx, rawURL, map[string]string{
		"Accept": "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, err
	}

	raw := strings.ToValidUTF8(string(resp.Body), "\uFFFD")
	page := &Page{
		URL:         rawURL,
		ContentType: resp.ContentType,
		Raw:         raw,
		Text:        raw,
	}
	if htmltext.LooksLikeHTML(resp.ContentType, raw) {
		page.HTML = true
		page.Text = htmltext.Extract(raw)
	}
	return page, nil
}
