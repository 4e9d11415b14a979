package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/xiaot623/taskchat/internal/adapter/llm"
	"github.com/xiaot623/taskchat/internal/domain"
)

// classifierTemperature is kept low so classification stays near-deterministic.
const classifierTemperature = 0.3

// fallbackReply is used whenever the model's output cannot be used.
const fallbackReply = "I processed your request."

const systemPrompt = `You are a helpful assistant that analyzes user requests to determine if they want to perform task operations.
Respond with a JSON object containing:
- "intent": the type of operation (add_task, update_task, delete_task, complete_task, get_tasks, other)
- "task_details": any relevant details like task title, description, or ID
- "response": what you would normally say to the user

Examples:
- User: "Add a task: buy groceries" -> {intent: "add_task", task_details: {title: "buy groceries"}, response: "I've added the task 'buy groceries' for you."}
- User: "Show my tasks" -> {intent: "get_tasks", task_details: {}, response: "Here are your tasks..."}
- User: "Complete task 1" -> {intent: "complete_task", task_details: {id: "1"}, response: "I've marked task 1 as complete."}`

// Classify asks the model to map the conversation onto a task intent. A
// transport failure is returned as an error; any unusable model output
// degrades to intent "other" with a generic reply instead.
func (s *Service) Classify(ctx context.Context, messages []domain.ChatMessage) (*domain.IntentAnalysis, error) {
	wire := make([]llm.ChatMessage, 0, len(messages)+1)
	wire = append(wire, llm.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	for _, msg := range messages {
		wire = append(wire, llm.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	temperature := classifierTemperature
	resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:          s.config.LLMModel,
		Messages:       wire,
		Temperature:    &temperature,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("classification call failed: %w", err)
	}

	var content string
	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil {
		content = resp.Choices[0].Message.Content
	}

	analysis, err := parseAnalysis(content)
	if err != nil {
		log.Printf("WARN: unparseable classifier output, degrading to intent=other: %v", err)
		return fallbackAnalysis(), nil
	}
	return analysis, nil
}

// rawAnalysis tolerates the loosely-typed shapes models actually emit:
// numeric ids, missing keys, or a null task_details object.
type rawAnalysis struct {
	Intent      string                     `json:"intent"`
	TaskDetails map[string]json.RawMessage `json:"task_details"`
	Response    string                     `json:"response"`
}

func parseAnalysis(content string) (*domain.IntentAnalysis, error) {
	if content == "" {
		return nil, fmt.Errorf("empty completion content")
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	analysis := &domain.IntentAnalysis{
		Intent:   domain.Intent(raw.Intent),
		Response: raw.Response,
		TaskDetails: domain.TaskDetails{
			ID:          rawString(raw.TaskDetails["id"]),
			Title:       rawString(raw.TaskDetails["title"]),
			Description: rawString(raw.TaskDetails["description"]),
			Priority:    rawString(raw.TaskDetails["priority"]),
			Status:      rawString(raw.TaskDetails["status"]),
		},
	}
	if update, ok := raw.TaskDetails["update"]; ok {
		var payload domain.UpdatePayload
		if err := json.Unmarshal(update, &payload); err == nil && !payload.IsEmpty() {
			analysis.TaskDetails.Update = &payload
		}
	}

	if analysis.Intent == "" {
		analysis.Intent = domain.IntentOther
	}
	if analysis.Response == "" {
		analysis.Response = fallbackReply
	}
	return analysis, nil
}

// rawString coerces a JSON string or number into a string, so "Complete
// task 1" works whether the model wrote {"id": "1"} or {"id": 1}.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func fallbackAnalysis() *domain.IntentAnalysis {
	return &domain.IntentAnalysis{
		Intent:   domain.IntentOther,
		Response: fallbackReply,
	}
}
