package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions задает параметры генерации для одного вызова.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

type Client interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, []byte, error)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
