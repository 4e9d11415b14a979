package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MockClient is a mock implementation of CompletionClient for testing and
// for running the service without an LLM endpoint.
type MockClient struct{}

// NewMockClient creates a new mock completion client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements CompletionClient interface.
var _ CompletionClient = (*MockClient)(nil)

// CreateChatCompletion returns a canned intent analysis derived from simple
// keyword matching on the last user message.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	content := m.generateMockAnalysis(req)

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     m.estimateTokens(req),
			CompletionTokens: len(content) / 4,
			TotalTokens:      m.estimateTokens(req) + len(content)/4,
		},
	}, nil
}

type mockAnalysis struct {
	Intent      string            `json:"intent"`
	TaskDetails map[string]string `json:"task_details"`
	Response    string            `json:"response"`
}

// generateMockAnalysis classifies the last user message with keyword rules
// and renders the same JSON object shape a real model would return.
func (m *MockClient) generateMockAnalysis(req *ChatCompletionRequest) string {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			last = req.Messages[i].Content
			break
		}
	}
	lower := strings.ToLower(last)

	analysis := mockAnalysis{
		Intent:      "other",
		TaskDetails: map[string]string{},
		Response:    "[MOCK] I processed your request.",
	}

	switch {
	case strings.Contains(lower, "add"):
		analysis.Intent = "add_task"
		analysis.TaskDetails["title"] = titleAfterColon(last)
		analysis.Response = "[MOCK] Added."
	case strings.Contains(lower, "delete") || strings.Contains(lower, "remove"):
		analysis.Intent = "delete_task"
		analysis.TaskDetails["title"] = titleAfterColon(last)
	case strings.Contains(lower, "complete") || strings.Contains(lower, "done"):
		analysis.Intent = "complete_task"
		analysis.TaskDetails["title"] = titleAfterColon(last)
	case strings.Contains(lower, "update") || strings.Contains(lower, "change"):
		analysis.Intent = "update_task"
		analysis.TaskDetails["title"] = titleAfterColon(last)
	case strings.Contains(lower, "show") || strings.Contains(lower, "list") || strings.Contains(lower, "tasks"):
		analysis.Intent = "get_tasks"
		analysis.Response = "[MOCK] Here are your tasks..."
	}

	out, _ := json.Marshal(analysis)
	return string(out)
}

// titleAfterColon extracts a rough task title for mock classification.
func titleAfterColon(s string) string {
	if idx := strings.Index(s, ":"); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	fields := strings.Fields(s)
	if len(fields) > 1 {
		return strings.Join(fields[1:], " ")
	}
	return strings.TrimSpace(s)
}

// estimateTokens provides a rough token count estimate.
func (m *MockClient) estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}
