package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/taskchat/internal/domain"
)

// HandleChatTurn runs the full pipeline for one inbound chat request:
// classify, extract, resolve, execute, respond. The only error returned is a
// classification transport failure; everything downstream degrades to reply
// text so the turn always completes.
func (s *Service) HandleChatTurn(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResult, error) {
	analysis, err := s.Classify(ctx, req.Messages)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	var lastMessage string
	if len(req.Messages) > 0 {
		lastMessage = req.Messages[len(req.Messages)-1].Content
	}

	reply, operation := s.Execute(ctx, req.AuthToken, analysis, lastMessage)

	response := domain.ChatResponse{
		ID:        "ai-" + uuid.New().String()[:8],
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}
	response.ConversationID = s.persistTurn(ctx, req, response)

	return &domain.ChatResult{Response: response, Operation: operation}, nil
}

// persistTurn records the exchange in the conversation store. Persistence is
// best-effort record keeping: a store failure must never fail the chat turn.
func (s *Service) persistTurn(ctx context.Context, req *domain.ChatRequest, response domain.ChatResponse) string {
	if s.store == nil {
		return req.ConversationID
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = "conv_" + uuid.New().String()[:8]
	}

	if _, err := s.store.GetOrCreateConversation(ctx, conversationID, req.UserID); err != nil {
		log.Printf("WARN: failed to open conversation %s: %v", conversationID, err)
		return req.ConversationID
	}

	if n := len(req.Messages); n > 0 && req.Messages[n-1].Role == domain.RoleUser {
		userMsg := req.Messages[n-1]
		// The user message precedes the reply; never let the store stamp it
		// with a later time.
		if userMsg.Timestamp.IsZero() {
			userMsg.Timestamp = response.Timestamp
		}
		if err := s.store.AppendMessage(ctx, conversationID, &userMsg); err != nil {
			log.Printf("WARN: failed to persist user message: %v", err)
		}
	}

	assistantMsg := domain.ChatMessage{
		ID:        response.ID,
		Role:      response.Role,
		Content:   response.Content,
		Timestamp: response.Timestamp,
	}
	if err := s.store.AppendMessage(ctx, conversationID, &assistantMsg); err != nil {
		log.Printf("WARN: failed to persist assistant message: %v", err)
	}

	return conversationID
}
