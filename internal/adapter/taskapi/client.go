// Package taskapi provides a client for the task management backend.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiaot623/taskchat/internal/domain"
)

// Client is the task backend REST client. Every call carries the caller's
// bearer token explicitly; the client holds no ambient credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new task backend client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListTasksResponse represents the response from GET /tasks.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// CreateTaskRequest represents the body for POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// ListTasks fetches the caller's full task list.
func (c *Client) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	var result ListTasksResponse
	if err := c.do(ctx, token, http.MethodGet, "/tasks", nil, &result); err != nil {
		return nil, err
	}
	return result.Tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, token string, req *CreateTaskRequest) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, token, http.MethodPost, "/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, token, taskID string, payload *domain.UpdatePayload) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, token, http.MethodPut, "/tasks/"+taskID, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, token, taskID string) error {
	return c.do(ctx, token, http.MethodDelete, "/tasks/"+taskID, nil, nil)
}

// ToggleCompletion flips a task's completion state.
func (c *Client) ToggleCompletion(ctx context.Context, token, taskID string) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, token, http.MethodPatch, "/tasks/"+taskID+"/toggle-completion", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// do sends one authenticated request and decodes the response into out when
// out is non-nil. Any non-2xx response becomes an error carrying the HTTP
// status text.
func (c *Client) do(ctx context.Context, token, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("task API request failed: %s", resp.Status)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
