package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// Domain Tool Implementations
// ============================================================================

const rdapBodyLength = 50000

// Domain availability outcomes
const (
	DomainTaken     = "taken"
	DomainAvailable = "available"
	DomainUnknown   = "unknown"
)

// DomainStatus is the result of rdap_domain
type DomainStatus struct {
	Domain     string      `json:"domain"`
	URL        string      `json:"url"`
	Status     string      `json:"status"`
	HTTPStatus *int        `json:"http_status"`
	RDAP       interface{} `json:"rdap,omitempty"`
	Error      string      `json:"error,omitempty"`
	Body       string      `json:"body,omitempty"`
}

func (e *Executor) executeRDAPDomain(ctx context.Context, args map[string]interface{}) *ToolResult {
	raw, err := requireString(args, "domain")
	if err != nil {
		return failure(err)
	}
	domain := normalizeDomain(raw)
	if domain == "" {
		return failure(apperrors.NewInvalidArgument("domain", "no host name found"))
	}

	status := DomainStatus{
		Domain: domain,
		URL:    fmt.Sprintf("%s/domain/%s", e.endpoints.RDAP, url.PathEscape(domain)),
	}

	resp, err := e.web.GetBytes(ctx, status.URL, map[string]string{
		"Accept": "application/rdap+json, application/json, */*",
	})
	if resp != nil {
		code := resp.StatusCode
		status.HTTPStatus = &code
	}

	var statusErr *apperrors.ErrHTTPStatus
	switch {
	case err == nil:
		text := truncate(strings.ToValidUTF8(string(resp.Body), "\uFFFD"), rdapBodyLength)
		doc := gjson.Parse(text)
		if gjson.Valid(text) {
			status.RDAP = doc.Value()
		} else {
			status.RDAP = map[string]string{"raw": text}
		}
		status.Status = DomainUnknown
		if doc.Get("objectClassName").String() == "domain" {
			status.Status = DomainTaken
		}

	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		status.Status = DomainAvailable

	case errors.As(err, &statusErr):
		status.Status = DomainUnknown
		status.Error = fmt.Sprintf("HTTP %d %s", statusErr.StatusCode, http.StatusText(statusErr.StatusCode))
		status.Body = truncate(strings.ToValidUTF8(string(resp.Body), "\uFFFD"), rdapBodyLength)

	case apperrors.IsErrorType(err, apperrors.ErrorTypeContext):
		return failure(err)

	default:
		status.Status = DomainUnknown
		status.Error = err.Error()
	}

	return &ToolResult{Success: true, Data: status}
}

// normalizeDomain lowercases and drops any scheme or path.
func normalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	return d
}
