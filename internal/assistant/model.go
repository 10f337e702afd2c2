// Package assistant turns an analysis into LLM context and runs the chat and
// one-shot summary against a generative model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one conversation turn.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Model generates the next model turn for a conversation.
type Model interface {
	Generate(ctx context.Context, history []Message) (string, error)
}

// ErrNoAPIKey is returned when the Gemini client is built without a key.
var ErrNoAPIKey = errors.New("gemini API key not set")

// GeminiConfig configures the Gemini model client.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Gemini implements Model with the Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

var _ Model = (*Gemini)(nil)

// NewGemini builds a client for the Gemini API backend.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

// Generate sends the whole history and returns the reply text.
func (g *Gemini) Generate(ctx context.Context, history []Message) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, len(history))
	for i, m := range history {
		contents[i] = genai.NewContentFromText(m.Text, genai.Role(m.Role))
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.cfg.Temperature),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
