// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"errors"

	"github.com/xiaot623/taskchat/internal/domain"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// Store defines the interface for conversation persistence.
type Store interface {
	// Conversation operations
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	GetOrCreateConversation(ctx context.Context, conversationID, userID string) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error

	// Message operations
	AppendMessage(ctx context.Context, conversationID string, msg *domain.ChatMessage) error
	GetMessages(ctx context.Context, conversationID string, limit int) ([]domain.ChatMessage, error)

	// Lifecycle
	Close() error
}
