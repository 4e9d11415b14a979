package service

import (
	"regexp"
	"strings"

	"github.com/xiaot623/taskchat/internal/domain"
)

// descPattern captures everything after the first "to be", "to" or
// "description:" as the new description.
var descPattern = regexp.MustCompile(`(?i)(?:to be|to|description:)\s*(.+)`)

// ExtractUpdateFields scans the raw user message for priority, status and
// description updates the classifier may have missed. Keyword precedence is
// load-bearing: priority checks high before medium before low before urgent,
// status checks completed before in_progress before pending. This stage
// never fails; unmatched fields stay unset.
func ExtractUpdateFields(text string) domain.UpdatePayload {
	var payload domain.UpdatePayload
	lower := strings.ToLower(text)

	if strings.Contains(lower, "priority") {
		switch {
		case strings.Contains(lower, "high"):
			payload.Priority = string(domain.PriorityHigh)
		case strings.Contains(lower, "medium"):
			payload.Priority = string(domain.PriorityMedium)
		case strings.Contains(lower, "low"):
			payload.Priority = string(domain.PriorityLow)
		case strings.Contains(lower, "urgent"):
			payload.Priority = string(domain.PriorityUrgent)
		}
	}

	if strings.Contains(lower, "status") {
		switch {
		case strings.Contains(lower, "completed"):
			payload.Status = string(domain.StatusCompleted)
		case strings.Contains(lower, "in progress") || strings.Contains(lower, "in_progress"):
			payload.Status = string(domain.StatusInProgress)
		case strings.Contains(lower, "pending"):
			payload.Status = string(domain.StatusPending)
		}
	}

	if strings.Contains(lower, "description") || strings.Contains(lower, "to be") || strings.Contains(lower, "change to") {
		if m := descPattern.FindStringSubmatch(text); m != nil {
			payload.Description = strings.TrimSpace(m[1])
		}
	}

	return payload
}

// BuildUpdatePayload merges the classifier's fields with heuristics from the
// raw message. Classifier fields win; heuristic values only fill gaps. If
// nothing was found either way and the classifier supplied an explicit
// update object, that object is used verbatim.
func BuildUpdatePayload(details domain.TaskDetails, lastMessage string) domain.UpdatePayload {
	payload := domain.UpdatePayload{
		Title:       details.Title,
		Description: details.Description,
		Priority:    details.Priority,
		Status:      details.Status,
	}
	payload = payload.Merge(ExtractUpdateFields(lastMessage))

	if payload.IsEmpty() && details.Update != nil {
		return *details.Update
	}
	return payload
}
