package server

import (
	"github.com/labstack/echo/v4"

	"github.com/k-hushi90/iscover-jharkhand-smart-49/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	itineraryHandler *handlers.ItineraryHandler,
	chatHandler *handlers.ChatHandler,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	e.POST("/itinerary-planner", itineraryHandler.Generate, aiRateLimiter)
	e.POST("/multilingual-chatbot", chatHandler.Reply, aiRateLimiter)
}
