package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/internal/tools"
	apperrors "research-tools/backend/pkg/errors"
)

type fakeRunner struct {
	calls  []adapter.ToolCall
	result *tools.ToolResult
}

func (f *fakeRunner) Execute(_ context.Context, call adapter.ToolCall) *tools.ToolResult {
	f.calls = append(f.calls, call)
	return f.result
}

func execute(t *testing.T, runner *fakeRunner, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(runner)
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func okRunner() *fakeRunner {
	return &fakeRunner{result: &tools.ToolResult{Success: true, Data: map[string]interface{}{"title": "Go"}}}
}

func TestListCmd(t *testing.T) {
	out, err := execute(t, okRunner(), "", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(tools.GetAllTools()))
	assert.Contains(t, out, "github_repo")
	assert.Contains(t, out, "<owner> <repo>")

	out, err = execute(t, okRunner(), "", "list", "--json")
	require.NoError(t, err)
	var defs []adapter.Tool
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	assert.Len(t, defs, len(tools.GetAllTools()))
}

func TestRunCmd(t *testing.T) {
	runner := okRunner()
	out, err := execute(t, runner, "", "run", "reddit_list", "golang", "sort=top", "t=week")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, map[string]interface{}{"subreddit": "golang", "sort": "top", "t": "week"}, runner.calls[0].Arguments)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["success"])
}

func TestRunCmd_Markdown(t *testing.T) {
	out, err := execute(t, okRunner(), "", "run", "wikipedia_search", "alan", "turing", "--markdown")
	require.NoError(t, err)
	assert.Equal(t, "## wikipedia_search\n\n- **title:** Go\n", out)
}

func TestRunCmd_Errors(t *testing.T) {
	_, err := execute(t, okRunner(), "", "run")
	assert.Error(t, err)

	_, err = execute(t, okRunner(), "", "run", "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeTool))

	runner := &fakeRunner{result: &tools.ToolResult{Success: false, Error: "HTTP 503"}}
	out, err := execute(t, runner, "", "run", "wikipedia_search", "go")
	require.Error(t, err)
	assert.Contains(t, out, "HTTP 503")
}

func TestParseToolArgs(t *testing.T) {
	tool, ok := tools.LookupTool(tools.ToolGitHubReadFile)
	require.True(t, ok)

	args, err := parseToolArgs(tool, []string{"owner=golang", "repo=go", "README.md"})
	require.NoError(t, err)
	assert.Equal(t, "README.md", args["path"])

	search, _ := tools.LookupTool(tools.ToolWikipediaSearch)
	_, err = parseToolArgs(search, []string{"query=go", "extra"})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInput))
}

func TestExtractCmd(t *testing.T) {
	page := "<html><head><title>T</title></head><body><p>Hello</p><p>World</p></body></html>"

	out, err := execute(t, okRunner(), page, "extract")
	require.NoError(t, err)
	assert.Equal(t, "Hello \n\nWorld\n", out)

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))
	out, err = execute(t, okRunner(), "", "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello \n\nWorld\n", out)

	_, err = execute(t, okRunner(), "", "extract", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
