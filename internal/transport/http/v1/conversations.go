package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/taskchat/internal/store"
)

// GetConversation retrieves a conversation with its messages.
// GET /api/v1/conversation/:conversation_id
func (h *Handler) GetConversation(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	ctx := c.Request().Context()

	history, err := h.service.GetConversationHistory(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, history)
}

// DeleteConversation removes a conversation.
// DELETE /api/v1/conversation/:conversation_id
func (h *Handler) DeleteConversation(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	ctx := c.Request().Context()

	resp, err := h.service.DeleteConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}
