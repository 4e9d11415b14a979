package v1

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/taskchat/internal/domain"
)

// llmUnavailableReply is the fixed apology returned when the classification
// endpoint cannot be reached.
const llmUnavailableReply = "I'm having trouble connecting to the AI service. Please try again."

// Chat runs one chat turn.
// POST /api/v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "messages must not be empty"})
	}
	if req.AuthToken == "" {
		req.AuthToken = bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	}

	ctx := c.Request().Context()

	result, err := h.service.HandleChatTurn(ctx, &req)
	if err != nil {
		// The classification endpoint is down. The turn still produces a
		// reply, just a canned one, and no task operation was attempted.
		log.Printf("ERROR: chat turn failed: %v", err)
		c.Response().Header().Set(HeaderTaskOperation, "")
		return c.JSON(http.StatusInternalServerError, domain.ChatResponse{
			ID:        "ai-" + uuid.New().String()[:8],
			Role:      domain.RoleAssistant,
			Content:   llmUnavailableReply,
			Timestamp: time.Now().UTC(),
		})
	}

	c.Response().Header().Set(HeaderTaskOperation, string(result.Operation))
	return c.JSON(http.StatusOK, result.Response)
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
	return ""
}
