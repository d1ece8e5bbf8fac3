package discord

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/internal/constants"
	"research-tools/backend/internal/tools"
)

// ToolRunner executes one tool call
type ToolRunner interface {
	Execute(ctx context.Context, call adapter.ToolCall) *tools.ToolResult
}

// messageSender is the part of *discordgo.Session the handler uses
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Handler handles Discord message processing
type Handler struct {
	runner     ToolRunner
	prefix     string
	timeout    time.Duration
	chunkDelay time.Duration
	logger     *zap.Logger
}

// NewHandler creates a new Discord message handler
func NewHandler(runner ToolRunner, prefix string, logger *zap.Logger) *Handler {
	return &Handler{
		runner:     runner,
		prefix:     prefix,
		timeout:    constants.ToolCallTimeout,
		chunkDelay: constants.DiscordChunkDelay,
		logger:     logger,
	}
}

// HandleMessage processes a Discord message
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State == nil || s.State.User == nil {
		return
	}
	h.handle(s, s.State.User.ID, m)
}

func (h *Handler) handle(s messageSender, botID string, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == botID || m.Author.Bot {
		return
	}

	content := stripMention(strings.TrimSpace(m.Content), botID)
	isDM := m.GuildID == ""
	isMentioned := content != strings.TrimSpace(m.Content)

	// Outside DMs and mentions only prefixed commands are answered
	if !strings.HasPrefix(content, h.prefix) {
		if !isDM && !isMentioned {
			return
		}
		content = h.prefix + content
	}

	cmd, ok := ParseCommand(content, h.prefix)
	if !ok {
		return
	}

	h.logger.Info("Processing Discord command",
		zap.String("user_id", m.Author.ID),
		zap.String("channel_id", m.ChannelID),
		zap.String("command", cmd.Name),
		zap.Bool("is_dm", isDM),
	)

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		h.logger.Debug("Typing indicator failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.sendLongMessage(s, m.ChannelID, h.Reply(ctx, cmd))
}

// Reply builds the Discord-formatted answer to a command
func (h *Handler) Reply(ctx context.Context, cmd Command) string {
	switch cmd.Name {
	case CommandTools:
		return h.listTools()
	case CommandHelp:
		return h.describeTool(cmd.Text)
	}

	tool, ok := tools.LookupTool(cmd.Name)
	if !ok {
		return fmt.Sprintf("Unknown command %s. Try %s to see what I can do.",
			FormatInlineCode(cmd.Name), FormatInlineCode(h.prefix+CommandTools))
	}

	args, err := BindArguments(tool, cmd.Text)
	if err != nil {
		return fmt.Sprintf("%s\n%s", err.Error(), h.usage(tool))
	}
	for _, name := range tool.Function.Required() {
		if _, ok := args[name]; !ok {
			return fmt.Sprintf("Missing %s.\n%s", FormatInlineCode(name), h.usage(tool))
		}
	}

	result := h.runner.Execute(ctx, adapter.ToolCall{Name: cmd.Name, Arguments: args})
	if !result.Success {
		h.logger.Warn("Tool failed for Discord command",
			zap.String("tool", cmd.Name),
			zap.String("error", result.Error),
		)
	}
	return FormatMarkdown(tools.RenderMarkdown(cmd.Name, result))
}

func (h *Handler) listTools() string {
	all := tools.GetAllTools()
	sort.Slice(all, func(i, j int) bool { return all[i].Function.Name < all[j].Function.Name })

	// One line per tool keeps the catalogue inside a single message;
	// descriptions are shown by help.
	var b strings.Builder
	b.WriteString(FormatBold("Available tools") + "\n")
	for _, t := range all {
		b.WriteString("• " + FormatInlineCode(h.command(t)) + "\n")
	}
	fmt.Fprintf(&b, "\nUse %s for a description and all parameters.", FormatInlineCode(h.prefix+CommandHelp+" <tool>"))
	return b.String()
}

func (h *Handler) describeTool(name string) string {
	tool, ok := tools.LookupTool(strings.TrimPrefix(strings.TrimSpace(name), h.prefix))
	if !ok {
		return fmt.Sprintf("Usage: %s", FormatInlineCode(h.prefix+CommandHelp+" <tool>"))
	}

	required := map[string]bool{}
	for _, r := range tool.Function.Required() {
		required[r] = true
	}

	var b strings.Builder
	b.WriteString(FormatBold(tool.Function.Name) + "\n" + tool.Function.Description + "\n\n")
	for _, p := range tool.Function.Properties() {
		marker := ""
		if required[p] {
			marker = " (required)"
		}
		fmt.Fprintf(&b, "• %s %s%s\n", FormatInlineCode(p), tool.Function.PropertyType(p), marker)
	}
	b.WriteString("\n" + h.usage(tool))
	return b.String()
}

func (h *Handler) usage(tool adapter.Tool) string {
	return "Usage: " + FormatInlineCode(h.command(tool)+" [key=value ...]")
}

// command is the prefixed tool name followed by its required parameters
func (h *Handler) command(tool adapter.Tool) string {
	parts := []string{h.prefix + tool.Function.Name}
	for _, r := range tool.Function.Required() {
		parts = append(parts, "<"+r+">")
	}
	return strings.Join(parts, " ")
}

func stripMention(content, botID string) string {
	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.HasPrefix(content, mention) {
			return strings.TrimSpace(strings.TrimPrefix(content, mention))
		}
	}
	return content
}
