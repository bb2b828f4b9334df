package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Значения по умолчанию совпадают с исходными edge-функциями:
// планировщику нужен длинный структурный ответ, чату — короткий и живой.
const (
	DefaultItineraryMaxTokens   = 2000
	DefaultItineraryTemperature = 0.7
	DefaultChatMaxTokens        = 800
	DefaultChatTemperature      = 0.8
	DefaultChatHistoryLimit     = 20

	DefaultLanguage        = "English"
	FallbackItineraryTitle = "Your Jharkhand Adventure"
)

const itinerarySystemPrompt = "You are an expert travel planner specializing in Jharkhand tourism. Create detailed, culturally sensitive, and sustainable travel itineraries."

type Service struct {
	client        Client
	itineraryOpts ChatOptions
	chatOpts      ChatOptions
	historyLimit  int
}

// ServiceOptions переопределяет параметры генерации; нулевые значения
// заменяются значениями по умолчанию.
type ServiceOptions struct {
	Itinerary        ChatOptions
	Chat             ChatOptions
	ChatHistoryLimit int
}

// NewService создает сервис работы с AI-клиентом.
func NewService(client Client, opts ServiceOptions) *Service {
	itinerary := opts.Itinerary
	if itinerary.MaxTokens <= 0 {
		itinerary.MaxTokens = DefaultItineraryMaxTokens
	}
	if itinerary.Temperature <= 0 {
		itinerary.Temperature = DefaultItineraryTemperature
	}

	chat := opts.Chat
	if chat.MaxTokens <= 0 {
		chat.MaxTokens = DefaultChatMaxTokens
	}
	if chat.Temperature <= 0 {
		chat.Temperature = DefaultChatTemperature
	}

	historyLimit := opts.ChatHistoryLimit
	if historyLimit <= 0 {
		historyLimit = DefaultChatHistoryLimit
	}

	return &Service{
		client:        client,
		itineraryOpts: itinerary,
		chatOpts:      chat,
		historyLimit:  historyLimit,
	}
}

// PlanItinerary запрашивает у модели маршрут и разбирает ответ.
// Ошибкой считается только отказ шлюза; не-JSON ответ модели деградирует
// до плоского текста и запрос остается успешным.
func (s *Service) PlanItinerary(ctx context.Context, input ItineraryInput) (ItineraryResult, string, []byte, error) {
	prompt := buildItineraryPrompt(input)

	messages := []Message{
		{Role: "system", Content: itinerarySystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages, s.itineraryOpts)
	if err != nil {
		return ItineraryResult{}, prompt, raw, err
	}

	return parseItinerary(content), prompt, raw, nil
}

// Chat собирает последовательность сообщений и возвращает ответ ассистента.
func (s *Service) Chat(ctx context.Context, input ChatInput) (string, []byte, error) {
	return s.client.Chat(ctx, s.buildChatMessages(input), s.chatOpts)
}

// Порядок и есть вся "память" сервиса: системное сообщение, история
// в исходном порядке, новое сообщение последним.
func (s *Service) buildChatMessages(input ChatInput) []Message {
	history := input.History
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: chatSystemPrompt(resolveLanguage(input.Language))})
	for _, turn := range history {
		messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: "user", Content: input.Message})

	return messages
}

func buildItineraryPrompt(input ItineraryInput) string {
	return fmt.Sprintf(`Create a personalized %d-day itinerary for Jharkhand, India based on these preferences:
- Budget: %s
- Interests: %s
- Additional preferences: %s
- Response language: %s

Include:
- Day-by-day detailed schedule
- Specific destinations in Jharkhand (like Betla National Park, Hundru Falls, tribal villages)
- Cultural experiences and eco-tourism activities
- Local food recommendations
- Transportation suggestions
- Estimated costs for each activity
- Cultural etiquette tips

Format as a structured JSON with this format:
{
  "title": "Your Jharkhand Adventure",
  "days": [
    {
      "day": 1,
      "title": "Day title",
      "activities": [
        {
          "time": "09:00 AM",
          "activity": "Activity name",
          "location": "Location",
          "description": "Detailed description",
          "cost": "₹500",
          "tips": "Helpful tips"
        }
      ]
    }
  ],
  "totalBudget": "₹15000",
  "tips": ["General travel tips for Jharkhand"]
}`,
		input.Duration,
		input.Budget,
		strings.Join(input.Interests, ", "),
		input.Preferences,
		resolveLanguage(input.Language),
	)
}

func chatSystemPrompt(language string) string {
	return fmt.Sprintf(`You are a multilingual tourism assistant for Jharkhand, India. You help tourists with:
- Information about destinations, culture, and activities in Jharkhand
- Travel planning and recommendations
- Cultural insights and local customs
- Transportation and accommodation suggestions
- Safety tips and practical advice

Always respond in %s unless specifically asked to use another language.
Be friendly, informative, and culturally sensitive.
Focus specifically on Jharkhand tourism - destinations like Betla National Park, Hundru Falls, tribal villages, cultural festivals, eco-tourism, etc.

If asked about places outside Jharkhand, politely redirect to Jharkhand attractions.`, language)
}

func resolveLanguage(language string) string {
	if strings.TrimSpace(language) == "" {
		return DefaultLanguage
	}

	return language
}

func parseItinerary(content string) ItineraryResult {
	fallback := ItineraryResult{PlainText: content}

	payload := extractJSON(content)
	if payload == "" {
		return fallback
	}

	var itinerary Itinerary
	if err := json.Unmarshal([]byte(payload), &itinerary); err != nil {
		return fallback
	}

	if err := validateItinerary(itinerary); err != nil {
		return fallback
	}

	return ItineraryResult{Structured: &itinerary}
}

func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}

func validateItinerary(itinerary Itinerary) error {
	if strings.TrimSpace(itinerary.Title) == "" {
		return fmt.Errorf("itinerary title is required")
	}

	if len(itinerary.Days) == 0 {
		return fmt.Errorf("itinerary days are required")
	}

	for _, day := range itinerary.Days {
		if len(day.Activities) == 0 {
			return fmt.Errorf("day %d has no activities", day.Day)
		}
	}

	return nil
}
