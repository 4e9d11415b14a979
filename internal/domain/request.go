package domain

import "time"

// ChatRequest is the inbound chat-turn request.
type ChatRequest struct {
	Messages       []ChatMessage `json:"messages"`
	UserID         string        `json:"user_id"`
	AuthToken      string        `json:"auth_token,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
}

// ChatResponse is the assistant's reply for one chat turn.
type ChatResponse struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id,omitempty"`
}

// ChatResult pairs the reply with the out-of-band operation marker. The
// marker names the task mutation that succeeded, or is empty when none did,
// so callers can decide whether to refresh task views.
type ChatResult struct {
	Response  ChatResponse
	Operation Intent
}

// ConversationHistoryResponse is the payload for fetching a conversation.
type ConversationHistoryResponse struct {
	ConversationID string        `json:"conversation_id"`
	Title          string        `json:"title,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Messages       []ChatMessage `json:"messages"`
}

// DeleteConversationResponse acknowledges a conversation deletion.
type DeleteConversationResponse struct {
	ConversationID string    `json:"conversation_id"`
	DeletedAt      time.Time `json:"deleted_at"`
	Message        string    `json:"message"`
}
