package service

import (
	"context"
	"strings"
)

// ResolveTask turns a task title fragment into a concrete task id by fuzzy
// matching against the user's live task list. Matching is case-insensitive
// substring containment in either direction; the first match in list order
// wins. A failed list fetch is returned as an error so callers can fail
// closed instead of mutating blind.
func (s *Service) ResolveTask(ctx context.Context, token, fragment string) (string, bool, error) {
	tasks, err := s.taskClient.ListTasks(ctx, token)
	if err != nil {
		return "", false, err
	}

	needle := strings.ToLower(strings.TrimSpace(fragment))
	for _, task := range tasks {
		title := strings.ToLower(strings.TrimSpace(task.Title))
		if strings.Contains(title, needle) || strings.Contains(needle, title) {
			return task.ID, true, nil
		}
	}
	return "", false, nil
}
