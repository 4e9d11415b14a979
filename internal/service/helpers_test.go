package service

import (
	"context"
	"testing"
	"time"

	"github.com/xiaot623/taskchat/internal/adapter/llm"
	"github.com/xiaot623/taskchat/internal/adapter/taskapi"
	"github.com/xiaot623/taskchat/internal/config"
	"github.com/xiaot623/taskchat/internal/store"
	"github.com/xiaot623/taskchat/policy"
)

// stubCompletionClient returns a fixed completion content or error and
// records the last request for assertions.
type stubCompletionClient struct {
	content string
	err     error
	lastReq *llm.ChatCompletionRequest
}

func (s *stubCompletionClient) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatCompletionResponse{
		ID:      "chatcmpl-test",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      &llm.ChatMessage{Role: "assistant", Content: s.content},
				FinishReason: "stop",
			},
		},
	}, nil
}

var _ llm.CompletionClient = (*stubCompletionClient)(nil)

func testConfig(taskAPIURL string) *config.Config {
	return &config.Config{
		LLMModel:       "test-model",
		TaskAPIBaseURL: taskAPIURL,
		TaskAPITimeout: 5 * time.Second,
	}
}

// newTestService wires a service with a stub classifier and a task client
// pointed at backendURL. The policy engine runs the default policy.
func newTestService(t *testing.T, stub *stubCompletionClient, backendURL string) *Service {
	t.Helper()

	cfg := testConfig(backendURL)
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}
	taskClient := taskapi.NewClient(backendURL, cfg.TaskAPITimeout)

	return New(nil, stub, taskClient, cfg, engine)
}

// newBlockDeletePolicy builds a policy that forbids deletions outright.
func newBlockDeletePolicy() (*policy.Engine, error) {
	return policy.NewEngine(context.Background(), `
package task_policy

default decision := "allow"

decision := "block" if input.intent == "delete_task"
`)
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
