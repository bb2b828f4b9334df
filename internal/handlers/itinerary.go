package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/k-hushi90/iscover-jharkhand-smart-49/internal/ai"
)

const itineraryFailureDetails = "Failed to generate itinerary. Please try again."

type ItineraryHandler struct {
	Service *ai.Service
}

// NewItineraryHandler создает обработчик генерации маршрутов.
func NewItineraryHandler(service *ai.Service) *ItineraryHandler {
	return &ItineraryHandler{Service: service}
}

type ItineraryRequest struct {
	Preferences string   `json:"preferences" validate:"required"`
	Duration    int      `json:"duration" validate:"required,gt=0"`
	Budget      string   `json:"budget" validate:"required"`
	Interests   []string `json:"interests"`
	Language    string   `json:"language"`
}

type itineraryEnvelope struct {
	Itinerary any `json:"itinerary"`
}

// fallbackItinerary — плоский вариант ответа, когда модель вернула прозу.
type fallbackItinerary struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPlainText bool   `json:"isPlainText"`
}

type itineraryErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Generate обрабатывает POST /itinerary-planner.
func (h *ItineraryHandler) Generate(c echo.Context) error {
	var req ItineraryRequest
	if err := c.Bind(&req); err != nil {
		return itineraryFailure(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return itineraryFailure(c, http.StatusBadRequest, "validation failed: preferences, duration and budget are required")
	}
	// interests обязателен, но может быть пустым списком
	if req.Interests == nil {
		return itineraryFailure(c, http.StatusBadRequest, "validation failed: interests array is required")
	}

	result, _, _, err := h.Service.PlanItinerary(c.Request().Context(), ai.ItineraryInput{
		Preferences: req.Preferences,
		Duration:    req.Duration,
		Budget:      req.Budget,
		Interests:   req.Interests,
		Language:    req.Language,
	})
	if err != nil {
		slog.Error("itinerary generation failed",
			slog.String("stage", "gateway"),
			slog.String("error", err.Error()))
		return itineraryFailure(c, http.StatusInternalServerError, err.Error())
	}

	if result.IsPlainText() {
		slog.Warn("itinerary degraded to plain text", slog.String("stage", "parse"))
		return c.JSON(http.StatusOK, itineraryEnvelope{Itinerary: fallbackItinerary{
			Title:       ai.FallbackItineraryTitle,
			Content:     result.PlainText,
			IsPlainText: true,
		}})
	}

	return c.JSON(http.StatusOK, itineraryEnvelope{Itinerary: result.Structured})
}

func itineraryFailure(c echo.Context, status int, message string) error {
	return c.JSON(status, itineraryErrorResponse{
		Error:   message,
		Details: itineraryFailureDetails,
	})
}
