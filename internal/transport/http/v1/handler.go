// Package v1 provides versioned HTTP handlers for the task chat service.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/taskchat/internal/service"
)

// HeaderTaskOperation carries the operation marker so a UI can decide
// whether to refresh its task list.
const HeaderTaskOperation = "X-Task-Operation"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/chat", h.Chat)
	e.GET("/api/v1/conversation/:conversation_id", h.GetConversation)
	e.DELETE("/api/v1/conversation/:conversation_id", h.DeleteConversation)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
