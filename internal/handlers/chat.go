package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/k-hushi90/iscover-jharkhand-smart-49/internal/ai"
)

// chatApology — фиксированный ответ при отказе: UI чата всегда должен
// получить поле reply, которое можно отрисовать.
const chatApology = "Sorry, I encountered an error. Please try again."

type ChatHandler struct {
	Service *ai.Service
}

// NewChatHandler создает обработчик чат-ассистента.
func NewChatHandler(service *ai.Service) *ChatHandler {
	return &ChatHandler{Service: service}
}

type ChatRequest struct {
	Message     string     `json:"message" validate:"required"`
	Language    string     `json:"language"`
	ChatHistory []ChatTurn `json:"chatHistory"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	Language  string `json:"language"`
	Timestamp string `json:"timestamp"`
}

type chatErrorResponse struct {
	Error     string `json:"error"`
	Reply     string `json:"reply"`
	Timestamp string `json:"timestamp"`
}

// Reply обрабатывает POST /multilingual-chatbot.
func (h *ChatHandler) Reply(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return chatFailure(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return chatFailure(c, http.StatusBadRequest, "message is required")
	}

	language := req.Language
	if strings.TrimSpace(language) == "" {
		language = ai.DefaultLanguage
	}

	history := make([]ai.Message, 0, len(req.ChatHistory))
	for _, turn := range req.ChatHistory {
		history = append(history, ai.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, _, err := h.Service.Chat(c.Request().Context(), ai.ChatInput{
		Message:  req.Message,
		Language: language,
		History:  history,
	})
	if err != nil {
		slog.Error("chat completion failed",
			slog.String("stage", "gateway"),
			slog.String("language", language),
			slog.String("error", err.Error()))
		return chatFailure(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Reply:     reply,
		Language:  language,
		Timestamp: isoTimestamp(),
	})
}

func chatFailure(c echo.Context, status int, message string) error {
	return c.JSON(status, chatErrorResponse{
		Error:     message,
		Reply:     chatApology,
		Timestamp: isoTimestamp(),
	})
}

func isoTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
