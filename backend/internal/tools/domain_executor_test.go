package tools

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRDAPDomain(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/domain/example.com": func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Accept"), "application/rdap+json")
			w.Header().Set("Content-Type", "application/rdap+json")
			_, _ = w.Write([]byte(`{"objectClassName":"domain","ldhName":"EXAMPLE.COM"}`))
		},
		"/domain/unregistered.dev": status(http.StatusNotFound, `{"errorCode":404}`),
		"/domain/broken.io":        status(http.StatusBadGateway, "upstream registry unavailable"),
		"/domain/odd.net":          respond("text/plain", "not json"),
	})

	tests := []struct {
		name       string
		input      string
		domain     string
		status     string
		httpStatus int
	}{
		{"taken", "HTTPS://Example.com/some/path", "example.com", DomainTaken, http.StatusOK},
		{"available", "unregistered.dev", "unregistered.dev", DomainAvailable, http.StatusNotFound},
		{"registry error", "broken.io", "broken.io", DomainUnknown, http.StatusBadGateway},
		{"unparseable body", "odd.net", "odd.net", DomainUnknown, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := run(e, ToolRDAPDomain, map[string]interface{}{"domain": tc.input})
			require.True(t, result.Success, result.Error)
			got := result.Data.(DomainStatus)
			assert.Equal(t, tc.domain, got.Domain)
			assert.Equal(t, tc.status, got.Status)
			require.NotNil(t, got.HTTPStatus)
			assert.Equal(t, tc.httpStatus, *got.HTTPStatus)
		})
	}

	result := run(e, ToolRDAPDomain, map[string]interface{}{"domain": "broken.io"})
	got := result.Data.(DomainStatus)
	assert.Equal(t, "HTTP 502 Bad Gateway", got.Error)
	assert.Equal(t, "upstream registry unavailable", got.Body)

	result = run(e, ToolRDAPDomain, map[string]interface{}{"domain": "odd.net"})
	assert.Equal(t, map[string]string{"raw": "not json"}, result.Data.(DomainStatus).RDAP)
}

func TestRDAPDomain_TransportError(t *testing.T) {
	e := newTestExecutor(t, nil)
	ep := e.Endpoints()
	ep.RDAP = "http://127.0.0.1:1"
	e.SetEndpoints(ep)

	result := run(e, ToolRDAPDomain, map[string]interface{}{"domain": "example.com"})
	require.True(t, result.Success, result.Error)
	got := result.Data.(DomainStatus)
	assert.Equal(t, DomainUnknown, got.Status)
	assert.Nil(t, got.HTTPStatus)
	assert.NotEmpty(t, got.Error)
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "example.com", normalizeDomain("  http://EXAMPLE.com/path?q=1 "))
	assert.Equal(t, "example.com", normalizeDomain("example.com?x"))
	assert.Equal(t, "", normalizeDomain("https:///"))
}
