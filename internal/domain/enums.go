// Package domain defines the core domain models for the task chat service.
package domain

// Intent represents the classified operation a chat message maps to.
type Intent string

const (
	IntentAddTask      Intent = "add_task"
	IntentUpdateTask   Intent = "update_task"
	IntentDeleteTask   Intent = "delete_task"
	IntentCompleteTask Intent = "complete_task"
	IntentGetTasks     Intent = "get_tasks"
	IntentOther        Intent = "other"
)

// IsMutation reports whether the intent requires a mutating backend call.
func (i Intent) IsMutation() bool {
	switch i {
	case IntentAddTask, IntentUpdateTask, IntentDeleteTask, IntentCompleteTask:
		return true
	}
	return false
}

// TaskPriority represents a task priority level.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskStatus represents a task lifecycle status.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
