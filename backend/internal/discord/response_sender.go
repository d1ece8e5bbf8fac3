package discord

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"research-tools/backend/internal/constants"
)

// partIndicatorReserve leaves room for "\n*(Part X/Y)*" on split replies
const partIndicatorReserve = 20

// sendLongMessage splits a message into chunks if it exceeds Discord's character limit
func (h *Handler) sendLongMessage(s messageSender, channelID, content string) {
	maxLength := constants.DiscordMaxMessageLength

	if utf8.RuneCountInString(content) <= maxLength {
		if _, err := s.ChannelMessageSend(channelID, content); err != nil {
			h.logger.Error("Failed to send message",
				zap.Error(err),
				zap.String("channel_id", channelID),
			)
		}
		return
	}

	chunks := splitMessage(content, maxLength-partIndicatorReserve)
	for i, chunk := range chunks {
		message := chunk + fmt.Sprintf("\n*(Part %d/%d)*", i+1, len(chunks))

		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			h.logger.Error("Failed to send message chunk",
				zap.Error(err),
				zap.String("channel_id", channelID),
				zap.Int("chunk", i+1),
				zap.Int("total_chunks", len(chunks)),
			)
			// Stop sending if we hit an error
			break
		}

		if i < len(chunks)-1 {
			time.Sleep(h.chunkDelay)
		}
	}
}

// fenceReserve keeps hard-wrapped lines short enough to share a chunk with
// a reopened code fence and its closing marker
const fenceReserve = 32

// splitMessage splits content into chunks of at most maxLength characters,
// breaking between lines where it can. A code block cut by a chunk boundary
// is closed at the end of the chunk and reopened at the start of the next.
func splitMessage(content string, maxLength int) []string {
	if utf8.RuneCountInString(content) <= maxLength {
		return []string{content}
	}

	var (
		chunks []string
		lines  []string
		length int
		fence  string // opening line of the code block we are inside, if any
	)

	flush := func() {
		if fence != "" {
			lines = append(lines, "```")
		}
		chunks = append(chunks, strings.Join(lines, "\n"))
		lines, length = nil, 0
		if fence != "" {
			lines = []string{fence}
			length = utf8.RuneCountInString(fence)
		}
	}

	add := func(line string) {
		limit := maxLength
		if fence != "" {
			limit -= len("\n```")
		}
		onlyFence := fence != "" && len(lines) == 1
		if len(lines) > 0 && !onlyFence && length+1+utf8.RuneCountInString(line) > limit {
			flush()
		}
		if len(lines) > 0 {
			length++
		}
		lines = append(lines, line)
		length += utf8.RuneCountInString(line)
	}

	for _, line := range strings.Split(content, "\n") {
		for _, piece := range hardWrap(line, maxLength-fenceReserve) {
			add(piece)
		}
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if fence == "" {
				fence = strings.TrimSpace(line)
			} else {
				fence = ""
			}
		}
	}
	if len(lines) > 0 {
		flush()
	}
	return chunks
}

// hardWrap cuts a line longer than n characters into pieces, preferring to
// break after a space in the last quarter of each piece.
func hardWrap(line string, n int) []string {
	runes := []rune(line)
	if len(runes) <= n {
		return []string{line}
	}

	var pieces []string
	for len(runes) > n {
		cut := n
		for i := n - 1; i > n*3/4; i-- {
			if runes[i] == ' ' {
				cut = i + 1
				break
			}
		}
		pieces = append(pieces, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(pieces, string(runes))
}
