package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ToOpenAITools converts tool definitions to the OpenAI function-calling format
func ToOpenAITools(tools []Tool) []openai.Tool {
	openaiTools := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		openaiTools = append(openaiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}
	return openaiTools
}

// FromOpenAIToolCall turns a model-issued tool call into a ToolCall
func FromOpenAIToolCall(tc openai.ToolCall) (ToolCall, error) {
	if tc.Function.Name == "" {
		return ToolCall{}, fmt.Errorf("tool call %q has no function name", tc.ID)
	}
	args, err := parseJSONArguments(tc.Function.Arguments)
	if err != nil {
		return ToolCall{}, err
	}
	return ToolCall{
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: args,
	}, nil
}

// ToolMessage wraps a tool result as the message fed back to the model
func ToolMessage(callID string, payload interface{}) (openai.ChatCompletionMessage, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    string(content),
		ToolCallID: callID,
	}, nil
}

// parseJSONArguments parses the JSON string arguments into a map
func parseJSONArguments(jsonStr string) (map[string]interface{}, error) {
	var args map[string]interface{}
	if jsonStr == "" {
		return make(map[string]interface{}), nil
	}

	if err := json.Unmarshal([]byte(jsonStr), &args); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if args == nil {
		args = make(map[string]interface{})
	}
	return args, nil
}
