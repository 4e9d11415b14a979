package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaot623/taskchat/internal/domain"
	"github.com/xiaot623/taskchat/policy"
)

// fakeBackend is an httptest task backend that records every call.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []string // "METHOD path"
	bodies  [][]byte
	tasks   []domain.Task
	failAll bool
	server  *httptest.Server
}

func newFakeBackend(t *testing.T, tasks []domain.Task) *fakeBackend {
	t.Helper()

	b := &fakeBackend{tasks: tasks}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.bodies = append(b.bodies, body)
	b.mu.Unlock()

	if b.failAll {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/tasks":
		json.NewEncoder(w).Encode(map[string]interface{}{"tasks": b.tasks})
	case r.Method == http.MethodPost && r.URL.Path == "/tasks":
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Task{ID: "new", Title: "created"})
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		json.NewEncoder(w).Encode(domain.Task{ID: "updated"})
	}
}

func (b *fakeBackend) recordedCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func TestExecuteAddTask(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentAddTask,
		TaskDetails: domain.TaskDetails{Title: "buy milk"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "add a task: buy milk")

	assert.Equal(t, `I've added the task "buy milk" for you.`, reply)
	assert.Equal(t, domain.IntentAddTask, op)

	calls := backend.recordedCalls()
	if assert.Len(t, calls, 1) {
		assert.Equal(t, "POST /tasks", calls[0])
	}
	var created map[string]string
	if err := json.Unmarshal(backend.bodies[0], &created); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	assert.Equal(t, "buy milk", created["title"])
	// Defaults fill unset fields.
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "medium", created["priority"])
}

func TestExecuteAddTaskWithoutTitle(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:   domain.IntentAddTask,
		Response: "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "add a task")

	assert.Equal(t, "suggested", reply)
	assert.Equal(t, domain.Intent(""), op)
	assert.Empty(t, backend.recordedCalls())
}

func TestExecuteAddTaskQuotedTitle(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentAddTask,
		TaskDetails: domain.TaskDetails{Title: `read "dune"`},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, `add a task: read "dune"`)

	// The title is interpolated verbatim, not escaped.
	assert.Equal(t, `I've added the task "read "dune"" for you.`, reply)
	assert.Equal(t, domain.IntentAddTask, op)
}

func TestExecuteCompleteTaskResolvesByTitle(t *testing.T) {
	backend := newFakeBackend(t, []domain.Task{
		{ID: "3", Title: "water plants"},
		{ID: "7", Title: "buy groceries"},
	})
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentCompleteTask,
		TaskDetails: domain.TaskDetails{Title: "groc"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "complete groc")

	assert.Equal(t, "I've marked task groc as complete.", reply)
	assert.Equal(t, domain.IntentCompleteTask, op)
	assert.Equal(t, []string{"GET /tasks", "PATCH /tasks/7/toggle-completion"}, backend.recordedCalls())
}

func TestExecuteUpdateTaskMergesHeuristics(t *testing.T) {
	backend := newFakeBackend(t, []domain.Task{{ID: "9", Title: "write report"}})
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentUpdateTask,
		TaskDetails: domain.TaskDetails{Title: "report"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "change priority to high for the report")

	assert.Equal(t, "I've updated task report.", reply)
	assert.Equal(t, domain.IntentUpdateTask, op)

	calls := backend.recordedCalls()
	assert.Equal(t, []string{"GET /tasks", "PUT /tasks/9"}, calls)

	var payload domain.UpdatePayload
	if err := json.Unmarshal(backend.bodies[1], &payload); err != nil {
		t.Fatalf("decode update body: %v", err)
	}
	assert.Equal(t, "high", payload.Priority)
	assert.Equal(t, "report", payload.Title)
}

func TestExecuteDeleteTaskMiss(t *testing.T) {
	backend := newFakeBackend(t, []domain.Task{{ID: "1", Title: "buy groceries"}})
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentDeleteTask,
		TaskDetails: domain.TaskDetails{Title: "quarterly taxes"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "delete quarterly taxes")

	assert.Equal(t, `I couldn't find the task "quarterly taxes" to delete.`, reply)
	assert.Equal(t, domain.Intent(""), op)
	assert.Equal(t, []string{"GET /tasks"}, backend.recordedCalls())
}

func TestExecuteMissReplyQuotedTitle(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentDeleteTask,
		TaskDetails: domain.TaskDetails{Title: `fix "login"`},
		Response:    "suggested",
	}
	reply, _ := svc.Execute(context.Background(), "tok", analysis, `delete fix "login"`)

	assert.Equal(t, `I couldn't find the task "fix "login"" to delete.`, reply)
}

func TestExecuteBackendFailureClearsMarker(t *testing.T) {
	backend := newFakeBackend(t, nil)
	backend.failAll = true
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentAddTask,
		TaskDetails: domain.TaskDetails{Title: "buy milk"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "add buy milk")

	assert.Contains(t, reply, "I had trouble processing your task request")
	assert.Contains(t, reply, "couldn't update the task system")
	assert.NotContains(t, reply, "boom")
	assert.Equal(t, domain.Intent(""), op)
}

func TestExecuteResolutionListFetchFails(t *testing.T) {
	backend := newFakeBackend(t, nil)
	backend.failAll = true
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentDeleteTask,
		TaskDetails: domain.TaskDetails{Title: "anything"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "delete anything")

	assert.Contains(t, reply, "I had trouble processing your task request")
	assert.Equal(t, domain.Intent(""), op)
	// Failed closed: the mutation was never attempted.
	assert.Equal(t, []string{"GET /tasks"}, backend.recordedCalls())
}

func TestExecuteGetTasks(t *testing.T) {
	backend := newFakeBackend(t, []domain.Task{
		{ID: "1", Title: "a task: buy milk", Status: "pending"},
		{ID: "2", Title: "write report", Status: "in_progress"},
	})
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{Intent: domain.IntentGetTasks, Response: "suggested"}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "show my tasks")

	assert.Equal(t, "Here are your tasks:\n• buy milk — pending\n• write report — in_progress", reply)
	assert.Equal(t, domain.Intent(""), op)
	// List-only: never mutates backend state.
	assert.Equal(t, []string{"GET /tasks"}, backend.recordedCalls())
}

func TestExecuteGetTasksEmpty(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{Intent: domain.IntentGetTasks, Response: "suggested"}
	reply, _ := svc.Execute(context.Background(), "tok", analysis, "show my tasks")

	assert.Equal(t, "Here are your tasks:\nYou have no tasks.", reply)
}

func TestExecuteWithoutToken(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentAddTask,
		TaskDetails: domain.TaskDetails{Title: "buy milk"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "", analysis, "add buy milk")

	assert.Equal(t, "suggested", reply)
	assert.Equal(t, domain.Intent(""), op)
	assert.Empty(t, backend.recordedCalls())
}

func TestExecuteOtherIntent(t *testing.T) {
	backend := newFakeBackend(t, nil)
	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)

	analysis := &domain.IntentAnalysis{Intent: domain.IntentOther, Response: "Nice weather today!"}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "hi")

	assert.Equal(t, "Nice weather today!", reply)
	assert.Equal(t, domain.Intent(""), op)
	assert.Empty(t, backend.recordedCalls())
}

func TestExecutePolicyBlocks(t *testing.T) {
	backend := newFakeBackend(t, []domain.Task{{ID: "1", Title: "buy groceries"}})

	svc := newTestService(t, &stubCompletionClient{}, backend.server.URL)
	// Replace the default policy with one that forbids deletions outright.
	engine, err := newBlockDeletePolicy()
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	svc.policyEngine = engine

	analysis := &domain.IntentAnalysis{
		Intent:      domain.IntentDeleteTask,
		TaskDetails: domain.TaskDetails{ID: "1", Title: "buy groceries"},
		Response:    "suggested",
	}
	reply, op := svc.Execute(context.Background(), "tok", analysis, "delete buy groceries")

	assert.Equal(t, "suggested", reply)
	assert.Equal(t, domain.Intent(""), op)
	assert.NotContains(t, backend.recordedCalls(), "DELETE /tasks/1")
}

func TestAllowOperationGatesOnlyMutations(t *testing.T) {
	svc := newTestService(t, &stubCompletionClient{}, "http://127.0.0.1:0")
	engine, err := policy.NewEngine(context.Background(), `
package task_policy

default decision := "block"
`)
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	svc.policyEngine = engine

	ctx := context.Background()
	assert.False(t, svc.allowOperation(ctx, domain.IntentDeleteTask, true, true))
	assert.False(t, svc.allowOperation(ctx, domain.IntentAddTask, false, true))
	// Reads and small talk are never policy-gated.
	assert.True(t, svc.allowOperation(ctx, domain.IntentGetTasks, false, false))
	assert.True(t, svc.allowOperation(ctx, domain.IntentOther, false, false))
}
