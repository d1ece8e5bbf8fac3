package discord

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/internal/constants"
	"research-tools/backend/internal/tools"
)

const botID = "bot-1"

type fakeRunner struct {
	calls  []adapter.ToolCall
	result *tools.ToolResult
}

func (f *fakeRunner) Execute(_ context.Context, call adapter.ToolCall) *tools.ToolResult {
	f.calls = append(f.calls, call)
	return f.result
}

func newTestHandler() (*Handler, *fakeRunner) {
	runner := &fakeRunner{result: &tools.ToolResult{
		Success: true,
		Data:    map[string]interface{}{"title": "Go"},
	}}
	h := NewHandler(runner, "!", zap.NewNop())
	h.chunkDelay = 0
	return h, runner
}

func message(content, guildID string, author *discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "chan-1",
		GuildID:   guildID,
		Content:   content,
		Author:    author,
	}}
}

var human = &discordgo.User{ID: "user-1", Username: "ada"}

func TestHandle_IgnoredMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  *discordgo.MessageCreate
	}{
		{"own message", message("!tools", "g1", &discordgo.User{ID: botID})},
		{"other bot", message("!tools", "g1", &discordgo.User{ID: "bot-2", Bot: true})},
		{"no author", message("!tools", "g1", nil)},
		{"guild chatter without prefix", message("hello there", "g1", human)},
		{"bare prefix", message("!", "g1", human)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, runner := newTestHandler()
			s := &fakeSender{}
			h.handle(s, botID, tc.msg)
			assert.Empty(t, s.messages)
			assert.Empty(t, runner.calls)
		})
	}
}

func TestHandle_RunsTool(t *testing.T) {
	h, runner := newTestHandler()
	s := &fakeSender{}

	h.handle(s, botID, message("!wikipedia_search go lang", "g1", human))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, tools.ToolWikipediaSearch, runner.calls[0].Name)
	assert.Equal(t, map[string]interface{}{"query": "go lang"}, runner.calls[0].Arguments)

	require.Len(t, s.messages, 1)
	assert.Equal(t, "**wikipedia_search**\n\n• **title:** Go\n", s.messages[0])
	assert.Equal(t, 1, s.typing)
}

func TestHandle_DirectMessageAndMentionNeedNoPrefix(t *testing.T) {
	h, runner := newTestHandler()

	s := &fakeSender{}
	h.handle(s, botID, message("wikipedia_search go", "", human))
	require.Len(t, runner.calls, 1)
	require.Len(t, s.messages, 1)

	s = &fakeSender{}
	h.handle(s, botID, message("<@"+botID+"> tools", "g1", human))
	require.Len(t, s.messages, 1)
	assert.Contains(t, s.messages[0], "`!wikipedia_search <query>`")

	s = &fakeSender{}
	h.handle(s, botID, message("<@!"+botID+"> !tools", "g1", human))
	require.Len(t, s.messages, 1)
	assert.Contains(t, s.messages[0], "**Available tools**")
}

func TestReply_ToolListFitsOneMessage(t *testing.T) {
	h, _ := newTestHandler()

	out := h.Reply(context.Background(), Command{Name: CommandTools})
	assert.LessOrEqual(t, utf8.RuneCountInString(out), constants.DiscordMaxMessageLength)
	for _, tool := range tools.GetAllTools() {
		assert.Contains(t, out, "`!"+tool.Function.Name)
	}
	assert.Contains(t, out, "`!github_repo <owner> <repo>`")
}

func TestReply(t *testing.T) {
	h, runner := newTestHandler()
	ctx := context.Background()

	t.Run("help for a tool", func(t *testing.T) {
		out := h.Reply(ctx, Command{Name: CommandHelp, Text: "github_repo"})
		assert.Contains(t, out, "**github_repo**")
		assert.Contains(t, out, "`owner` string (required)")
		assert.Contains(t, out, "`!github_repo <owner> <repo> [key=value ...]`")
	})

	t.Run("help without a tool", func(t *testing.T) {
		out := h.Reply(ctx, Command{Name: CommandHelp})
		assert.Contains(t, out, "Usage:")
	})

	t.Run("unknown command", func(t *testing.T) {
		out := h.Reply(ctx, Command{Name: "nope"})
		assert.Contains(t, out, "Unknown command `nope`")
		assert.Contains(t, out, "`!tools`")
	})

	t.Run("missing required argument", func(t *testing.T) {
		out := h.Reply(ctx, Command{Name: tools.ToolGitHubRepo})
		assert.Contains(t, out, "Missing `owner`")
		assert.Empty(t, runner.calls)
	})

	t.Run("tool failure is shown", func(t *testing.T) {
		runner.result = &tools.ToolResult{Success: false, Error: "HTTP 503"}
		out := h.Reply(ctx, Command{Name: tools.ToolWikipediaSearch, Text: "go"})
		assert.Contains(t, out, "**Error:** HTTP 503")
	})
}
