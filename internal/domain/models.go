package domain

import "time"

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// TaskDetails carries the structured fields the classifier extracted for an
// intent. All fields are optional; the zero value means absent.
type TaskDetails struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	Status      string         `json:"status,omitempty"`
	Update      *UpdatePayload `json:"update,omitempty"`
}

// IntentAnalysis is the classifier's verdict for one inbound message.
type IntentAnalysis struct {
	Intent      Intent      `json:"intent"`
	TaskDetails TaskDetails `json:"task_details"`
	Response    string      `json:"response"`
}

// UpdatePayload is the partial-update body sent to the task backend.
type UpdatePayload struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// IsEmpty reports whether no field is set.
func (p UpdatePayload) IsEmpty() bool {
	return p == UpdatePayload{}
}

// Merge fills fields that are absent in p from other. Fields already present
// in p win, so classifier output takes precedence over heuristics.
func (p UpdatePayload) Merge(other UpdatePayload) UpdatePayload {
	if p.Title == "" {
		p.Title = other.Title
	}
	if p.Description == "" {
		p.Description = other.Description
	}
	if p.Priority == "" {
		p.Priority = other.Priority
	}
	if p.Status == "" {
		p.Status = other.Status
	}
	return p
}

// Task is the task backend's entity. The chat pipeline reads and partially
// mutates it; it never owns task storage.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      string     `json:"user_id"`
}

// Conversation groups the persisted messages of one chat thread.
type Conversation struct {
	ID        string    `json:"conversation_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
