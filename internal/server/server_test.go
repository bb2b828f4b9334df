package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/k-hushi90/iscover-jharkhand-smart-49/internal/config"
)

func testConfig(gatewayURL string) config.Config {
	return config.Config{
		Env: "test",
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		AI: config.AIConfig{
			Provider:             "openai",
			APIKey:               "sk-test",
			BaseURL:              gatewayURL,
			Model:                "gpt-4o-mini",
			Timeout:              5 * time.Second,
			RateLimitPerMinute:   600,
			RateLimitBurst:       100,
			ItineraryMaxTokens:   2000,
			ItineraryTemperature: 0.7,
			ChatMaxTokens:        800,
			ChatTemperature:      0.8,
			ChatHistoryLimit:     20,
		},
	}
}

// TestPreflightShortCircuit проверяет, что OPTIONS завершается без вызова шлюза.
func TestPreflightShortCircuit(t *testing.T) {
	calls := 0
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer gateway.Close()

	e := New(testConfig(gateway.URL), nil)

	for _, path := range []string{"/itinerary-planner", "/multilingual-chatbot"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for %s, got %d", path, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("expected empty body for %s, got %q", path, rec.Body.String())
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("missing allow-origin header for %s", path)
		}
		if rec.Header().Get("Access-Control-Allow-Headers") != "authorization, x-client-info, apikey, content-type" {
			t.Fatalf("unexpected allow-headers for %s: %q", path, rec.Header().Get("Access-Control-Allow-Headers"))
		}
	}

	if calls != 0 {
		t.Fatalf("expected no gateway calls on preflight, got %d", calls)
	}
}

// TestChatEndToEnd проверяет маршрут чата против заглушки шлюза.
func TestChatEndToEnd(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected gateway path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Visit the falls and the park."}}]}`))
	}))
	defer gateway.Close()

	e := New(testConfig(gateway.URL), nil)

	req := httptest.NewRequest(http.MethodPost, "/multilingual-chatbot", strings.NewReader(`{"message":"What can I do in 3 days?","language":"English","chatHistory":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing allow-origin header on POST response")
	}
	if rec.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatal("missing allow-headers header on POST response")
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected content type: %s", rec.Header().Get("Content-Type"))
	}

	var resp struct {
		Reply     string `json:"reply"`
		Language  string `json:"language"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid json: %v", err)
	}
	if resp.Reply != "Visit the falls and the park." {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
	if resp.Language != "English" {
		t.Fatalf("unexpected language: %q", resp.Language)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp is not RFC3339: %q", resp.Timestamp)
	}
}

// TestItineraryGatewayFailure проверяет конверт ошибки при не-2xx от шлюза.
func TestItineraryGatewayFailure(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
	}))
	defer gateway.Close()

	e := New(testConfig(gateway.URL), nil)

	req := httptest.NewRequest(http.MethodPost, "/itinerary-planner", strings.NewReader(`{"preferences":"quiet","duration":2,"budget":"low","interests":["nature"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid json: %v", err)
	}
	if !strings.Contains(resp.Error, "upstream unavailable") {
		t.Fatalf("expected upstream message, got %q", resp.Error)
	}
}

// TestHealthRoute проверяет эндпоинт здоровья.
func TestHealthRoute(t *testing.T) {
	e := New(testConfig("http://127.0.0.1:0"), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
