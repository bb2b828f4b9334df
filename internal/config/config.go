package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env    string
	Server ServerConfig
	AI     AIConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type AIConfig struct {
	Provider             string
	APIKey               string
	BaseURL              string
	Model                string
	Timeout              time.Duration
	RateLimitPerMinute   int
	RateLimitBurst       int
	ItineraryMaxTokens   int
	ItineraryTemperature float64
	ChatMaxTokens        int
	ChatTemperature      float64
	ChatHistoryLimit     int
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	aiTimeout, err := parseDurationEnv("AI_TIMEOUT", 30*time.Second)
	if err != nil {
		return cfg, err
	}

	aiRateLimitPerMinute, err := parseIntEnv("AI_RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return cfg, err
	}

	aiRateLimitBurst, err := parseIntEnv("AI_RATE_LIMIT_BURST", 10)
	if err != nil {
		return cfg, err
	}

	itineraryMaxTokens, err := parseIntEnv("AI_ITINERARY_MAX_TOKENS", 2000)
	if err != nil {
		return cfg, err
	}

	itineraryTemperature, err := parseFloatEnv("AI_ITINERARY_TEMPERATURE", 0.7)
	if err != nil {
		return cfg, err
	}

	chatMaxTokens, err := parseIntEnv("AI_CHAT_MAX_TOKENS", 800)
	if err != nil {
		return cfg, err
	}

	chatTemperature, err := parseFloatEnv("AI_CHAT_TEMPERATURE", 0.8)
	if err != nil {
		return cfg, err
	}

	chatHistoryLimit, err := parseIntEnv("AI_CHAT_HISTORY_LIMIT", 20)
	if err != nil {
		return cfg, err
	}

	aiProvider := strings.ToLower(getEnv("AI_PROVIDER", "openai"))
	defaultBaseURL := "https://api.openai.com/v1"
	defaultModel := "gpt-4o-mini"
	if aiProvider == "gemini" {
		defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
		defaultModel = "gemini-1.5-flash"
	}

	aiAPIKey := getEnv("AI_API_KEY", "")
	if aiAPIKey == "" {
		aiAPIKey = getEnv("OPENAI_API_KEY", "")
	}
	if aiAPIKey == "" && aiProvider == "gemini" {
		aiAPIKey = getEnv("GEMINI_API_KEY", "")
	}

	cfg.AI = AIConfig{
		Provider:             aiProvider,
		APIKey:               aiAPIKey,
		BaseURL:              getEnv("AI_BASE_URL", defaultBaseURL),
		Model:                getEnv("AI_MODEL", defaultModel),
		Timeout:              aiTimeout,
		RateLimitPerMinute:   aiRateLimitPerMinute,
		RateLimitBurst:       aiRateLimitBurst,
		ItineraryMaxTokens:   itineraryMaxTokens,
		ItineraryTemperature: itineraryTemperature,
		ChatMaxTokens:        chatMaxTokens,
		ChatTemperature:      chatTemperature,
		ChatHistoryLimit:     chatHistoryLimit,
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Отсутствие AI_API_KEY здесь не ошибка: ключ проверяется на каждом
// запросе, чтобы сервис стартовал и честно отдавал 500 вместо падения.
func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if c.AI.RateLimitPerMinute <= 0 {
		return fmt.Errorf("AI_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.AI.RateLimitBurst <= 0 {
		return fmt.Errorf("AI_RATE_LIMIT_BURST must be greater than 0")
	}

	if c.AI.ItineraryMaxTokens <= 0 {
		return fmt.Errorf("AI_ITINERARY_MAX_TOKENS must be greater than 0")
	}

	if c.AI.ChatMaxTokens <= 0 {
		return fmt.Errorf("AI_CHAT_MAX_TOKENS must be greater than 0")
	}

	if c.AI.ItineraryTemperature <= 0 || c.AI.ItineraryTemperature > 2 {
		return fmt.Errorf("AI_ITINERARY_TEMPERATURE must be in (0, 2]")
	}

	if c.AI.ChatTemperature <= 0 || c.AI.ChatTemperature > 2 {
		return fmt.Errorf("AI_CHAT_TEMPERATURE must be in (0, 2]")
	}

	if c.AI.ChatHistoryLimit <= 0 {
		return fmt.Errorf("AI_CHAT_HISTORY_LIMIT must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
