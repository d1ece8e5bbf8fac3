package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/internal/constants"
	"research-tools/backend/internal/htmltext"
	"research-tools/backend/internal/tools"
	"research-tools/backend/pkg/config"
	apperrors "research-tools/backend/pkg/errors"
)

// toolRunner executes one tool call
type toolRunner interface {
	Execute(ctx context.Context, call adapter.ToolCall) *tools.ToolResult
}

func newRouter(runner toolRunner, cfg *config.Config, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())
	router.Use(bodyLimit(cfg.MaxFetchBytes))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Tool catalogue
		api.GET("/tools", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tools": tools.GetAllTools()})
		})

		// Run a tool with a JSON object of arguments
		api.POST("/tools/:name", func(c *gin.Context) {
			var args map[string]interface{}
			if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
				abortWithBodyError(c, err)
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), constants.ToolCallTimeout)
			defer cancel()

			name := c.Param("name")
			result := runner.Execute(ctx, adapter.ToolCall{Name: name, Arguments: args})
			status := resultStatus(result)

			if c.Query("format") == "markdown" {
				c.Data(status, "text/markdown; charset=utf-8", []byte(tools.RenderMarkdown(name, result)))
				return
			}
			c.JSON(status, result)
		})

		// OpenAI function-calling bridge
		api.GET("/openai/tools", func(c *gin.Context) {
			c.JSON(http.StatusOK, adapter.ToOpenAITools(tools.GetAllTools()))
		})

		api.POST("/openai/call", func(c *gin.Context) {
			var tc openai.ToolCall
			if err := c.ShouldBindJSON(&tc); err != nil {
				abortWithBodyError(c, err)
				return
			}
			call, err := adapter.FromOpenAIToolCall(tc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), constants.ToolCallTimeout)
			defer cancel()

			result := runner.Execute(ctx, call)
			msg, err := adapter.ToolMessage(call.ID, result)
			if err != nil {
				log.Error("Failed to encode tool message", zap.String("tool", call.Name), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode tool result"})
				return
			}
			c.JSON(http.StatusOK, msg)
		})

		// Readable text of an HTML document posted as the body
		api.POST("/extract", func(c *gin.Context) {
			body, err := c.GetRawData()
			if err != nil {
				abortWithBodyError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"text": htmltext.Extract(string(body))})
		})
	}

	return router
}

// resultStatus picks the HTTP status for a tool result
func resultStatus(result *tools.ToolResult) int {
	if result == nil {
		return http.StatusInternalServerError
	}
	if result.Success {
		return http.StatusOK
	}
	if result.Err == nil {
		return http.StatusInternalServerError
	}
	return apperrors.StatusCode(result.Err)
}

func abortWithBodyError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// bodyLimit caps request bodies at n bytes
func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// requestID propagates the caller's request id or assigns a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(constants.RequestIDHeader, id)
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+constants.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
