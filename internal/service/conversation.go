package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xiaot623/taskchat/internal/domain"
)

// GetConversationHistory returns a conversation with its messages.
func (s *Service) GetConversationHistory(ctx context.Context, conversationID string) (*domain.ConversationHistoryResponse, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.GetMessages(ctx, conversationID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return &domain.ConversationHistoryResponse{
		ConversationID: conv.ID,
		Title:          conv.Title,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
		Messages:       messages,
	}, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Service) DeleteConversation(ctx context.Context, conversationID string) (*domain.DeleteConversationResponse, error) {
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return &domain.DeleteConversationResponse{
		ConversationID: conversationID,
		DeletedAt:      time.Now().UTC(),
		Message:        "conversation deleted",
	}, nil
}
