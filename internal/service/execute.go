package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/xiaot623/taskchat/internal/adapter/taskapi"
	"github.com/xiaot623/taskchat/internal/domain"
	"github.com/xiaot623/taskchat/policy"
)

// titlePrefixPattern strips noise prefixes the model tends to leave on
// task titles when listing them.
var titlePrefixPattern = regexp.MustCompile(`(?i)^(a task:|task:)\s*`)

// Execute performs at most one backend call for the classified intent and
// renders the user-facing reply. It never returns an error: every failure
// becomes reply text, and the returned operation marker is empty unless a
// mutation actually succeeded.
func (s *Service) Execute(ctx context.Context, token string, analysis *domain.IntentAnalysis, lastMessage string) (string, domain.Intent) {
	reply := analysis.Response
	if reply == "" {
		reply = fallbackReply
	}

	// Without a token no backend operation is attempted; the classifier's
	// suggested reply stands on its own.
	if token == "" {
		return reply, ""
	}

	details := analysis.TaskDetails

	switch analysis.Intent {
	case domain.IntentAddTask:
		if details.Title == "" {
			return reply, ""
		}
		if !s.allowOperation(ctx, analysis.Intent, details.ID != "", details.Title != "") {
			return reply, ""
		}
		req := &taskapi.CreateTaskRequest{
			Title:       details.Title,
			Description: details.Description,
			Status:      details.Status,
			Priority:    details.Priority,
		}
		if req.Status == "" {
			req.Status = string(domain.StatusPending)
		}
		if req.Priority == "" {
			req.Priority = string(domain.PriorityMedium)
		}
		if _, err := s.taskClient.CreateTask(ctx, token, req); err != nil {
			return troubleReply(err), ""
		}
		return fmt.Sprintf("I've added the task \"%s\" for you.", details.Title), domain.IntentAddTask

	case domain.IntentUpdateTask:
		taskID, miss, errReply := s.resolveForMutation(ctx, token, details, "update")
		if errReply != "" {
			return errReply, ""
		}
		if miss {
			return reply, ""
		}
		if !s.allowOperation(ctx, analysis.Intent, taskID != "", details.Title != "") {
			return reply, ""
		}
		payload := BuildUpdatePayload(details, lastMessage)
		if _, err := s.taskClient.UpdateTask(ctx, token, taskID, &payload); err != nil {
			return troubleReply(err), ""
		}
		return fmt.Sprintf("I've updated task %s.", taskLabel(details, taskID)), domain.IntentUpdateTask

	case domain.IntentDeleteTask:
		taskID, miss, errReply := s.resolveForMutation(ctx, token, details, "delete")
		if errReply != "" {
			return errReply, ""
		}
		if miss {
			return reply, ""
		}
		if !s.allowOperation(ctx, analysis.Intent, taskID != "", details.Title != "") {
			return reply, ""
		}
		if err := s.taskClient.DeleteTask(ctx, token, taskID); err != nil {
			return troubleReply(err), ""
		}
		return fmt.Sprintf("I've deleted task %s.", taskLabel(details, taskID)), domain.IntentDeleteTask

	case domain.IntentCompleteTask:
		taskID, miss, errReply := s.resolveForMutation(ctx, token, details, "complete")
		if errReply != "" {
			return errReply, ""
		}
		if miss {
			return reply, ""
		}
		if !s.allowOperation(ctx, analysis.Intent, taskID != "", details.Title != "") {
			return reply, ""
		}
		if _, err := s.taskClient.ToggleCompletion(ctx, token, taskID); err != nil {
			return troubleReply(err), ""
		}
		return fmt.Sprintf("I've marked task %s as complete.", taskLabel(details, taskID)), domain.IntentCompleteTask

	case domain.IntentGetTasks:
		tasks, err := s.taskClient.ListTasks(ctx, token)
		if err != nil {
			return fmt.Sprintf("I had trouble retrieving your tasks: %s. Here's what I understood from your request.", err.Error()), ""
		}
		return formatTaskList(tasks), ""
	}

	return reply, ""
}

// resolveForMutation produces the task id for an update/delete/complete
// intent. It returns miss=true when the intent carries neither id nor title
// (nothing to act on, classifier reply stands), an errReply when the list
// fetch failed or no task matched, and otherwise the id to mutate.
func (s *Service) resolveForMutation(ctx context.Context, token string, details domain.TaskDetails, verb string) (taskID string, miss bool, errReply string) {
	if details.ID != "" {
		return details.ID, false, ""
	}
	if details.Title == "" {
		return "", true, ""
	}

	id, found, err := s.ResolveTask(ctx, token, details.Title)
	if err != nil {
		return "", false, troubleReply(err)
	}
	if !found {
		return "", false, fmt.Sprintf("I couldn't find the task \"%s\" to %s.", details.Title, verb)
	}
	return id, false, ""
}

// allowOperation consults the policy engine before a mutating call. Only
// mutations are policy-gated; evaluation failures fail closed.
func (s *Service) allowOperation(ctx context.Context, intent domain.Intent, hasTaskID, hasTitle bool) bool {
	if !intent.IsMutation() {
		return true
	}
	if s.policyEngine == nil {
		return true
	}
	decision, err := s.policyEngine.Evaluate(ctx, policy.Input{
		Intent:    string(intent),
		HasTaskID: hasTaskID,
		HasTitle:  hasTitle,
	})
	if err != nil {
		log.Printf("WARN: policy evaluation failed, blocking %s: %v", intent, err)
		return false
	}
	if decision != policy.DecisionAllow {
		log.Printf("WARN: policy blocked %s (has_task_id=%v has_title=%v)", intent, hasTaskID, hasTitle)
		return false
	}
	return true
}

// taskLabel names a task in replies: the title when one was given, the id
// otherwise.
func taskLabel(details domain.TaskDetails, taskID string) string {
	if details.Title != "" {
		return details.Title
	}
	return taskID
}

func troubleReply(err error) string {
	return fmt.Sprintf("I had trouble processing your task request: %s. I've processed your request but couldn't update the task system.", err.Error())
}

func formatTaskList(tasks []domain.Task) string {
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		clean := titlePrefixPattern.ReplaceAllString(task.Title, "")
		lines = append(lines, fmt.Sprintf("• %s — %s", clean, task.Status))
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		body = "You have no tasks."
	}
	return "Here are your tasks:\n" + body
}
