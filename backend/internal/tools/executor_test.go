package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/pkg/config"
	apperrors "research-tools/backend/pkg/errors"
)

// newTestExecutor points every endpoint at a local server driven by routes,
// keyed by request path.
func newTestExecutor(t *testing.T, routes map[string]http.HandlerFunc) *Executor {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.MaxItems = 3
	cfg.MaxContentLength = 50
	e := NewExecutor(cfg, srv.Client())
	e.SetEndpoints(AllAt(srv.URL))
	return e
}

func respond(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}
}

func jsonBody(body string) http.HandlerFunc {
	return respond("application/json", body)
}

func status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func run(e *Executor, name string, args map[string]interface{}) *ToolResult {
	return e.Execute(context.Background(), adapter.ToolCall{Name: name, Arguments: args})
}

func TestExecute_UnknownTool(t *testing.T) {
	e := newTestExecutor(t, nil)
	result := run(e, "does_not_exist", nil)
	assert.False(t, result.Success)
	assert.Equal(t, "[tool] unknown tool: does_not_exist", result.Error)

	var notFound *apperrors.ErrToolNotFound
	assert.ErrorAs(t, result.Err, &notFound)
}

func TestExecute_NilArgumentsReportMissingParameter(t *testing.T) {
	e := newTestExecutor(t, nil)
	result := e.Execute(context.Background(), adapter.ToolCall{Name: ToolWikipediaSearch})
	assert.False(t, result.Success)
	assert.True(t, apperrors.IsErrorType(result.Err, apperrors.ErrorTypeInput))
}

func TestExecute_EveryRegisteredToolIsRouted(t *testing.T) {
	e := newTestExecutor(t, nil)
	for _, tool := range GetAllTools() {
		result := e.dispatch(context.Background(), tool.Function.Name, map[string]interface{}{})
		var notFound *apperrors.ErrToolNotFound
		assert.False(t, errors.As(result.Err, &notFound), "tool %s is not routed", tool.Function.Name)
	}
}

func TestExecute_UpstreamStatusIsReported(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/w/api.php": status(http.StatusServiceUnavailable, "down"),
	})
	result := run(e, ToolWikipediaSearch, map[string]interface{}{"query": "go"})
	require.False(t, result.Success)
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusCode(result.Err))
}
