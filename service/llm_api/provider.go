package llmApi

import (
	"context"
	"fmt"
	"time"

	"github.com/dhruv304c2/gemini-gateway/service/metrics"
	"google.golang.org/genai"
)

// Provider is the boundary to the model service. Implementations are shared
// by all requests and must be safe for concurrent use.
type Provider interface {
	// Generate runs a single-turn request.
	Generate(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error)
	// Chat starts a session seeded with history and sends message as the next user turn.
	Chat(ctx context.Context, history []*genai.Content, message string) (*genai.GenerateContentResponse, error)
}

type GeminiProvider struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiProvider(ctx context.Context, apiKey, model, systemInstruction string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return NewGeminiProviderFromClient(client, model, systemInstruction), nil
}

func NewGeminiProviderFromClient(client *genai.Client, model, systemInstruction string) *GeminiProvider {
	p := &GeminiProvider{client: client, model: model}
	if systemInstruction != "" {
		p.config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		}
	}
	return p
}

func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, p.config)
	observe("generate", start, err)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return resp, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, history []*genai.Content, message string) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	chat, err := p.client.Chats.Create(ctx, p.model, p.config, history)
	if err != nil {
		observe("chat", start, err)
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	observe("chat", start, err)
	if err != nil {
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	return resp, nil
}

func observe(operation string, start time.Time, err error) {
	metrics.ProviderCallsTotal.WithLabelValues(operation, metrics.Result(err)).Inc()
	metrics.ProviderCallDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
