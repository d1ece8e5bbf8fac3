package constants

import "time"

// Discord constants
const (
	// DiscordMaxMessageLength is the maximum character limit for Discord messages
	DiscordMaxMessageLength = 2000

	// DiscordChunkDelay spaces out the parts of a split reply
	DiscordChunkDelay = 100 * time.Millisecond
)

// Tool execution constants
const (
	// ToolCallTimeout bounds a single tool call started by a front-end
	ToolCallTimeout = 60 * time.Second
)

// HTTP server constants
const (
	// RequestIDHeader carries the per-request id set by the API server
	RequestIDHeader = "X-Request-ID"

	// ShutdownTimeout is how long the API server waits for in-flight requests
	ShutdownTimeout = 5 * time.Second
)
