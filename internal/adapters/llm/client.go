// Package llm adapts an OpenAI-compatible API to the assistant's planner and
// to the semantic index's embedder.
package llm

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultChatModel      = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// Config selects the endpoint and models.
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float32
	MaxTokens      int
}

// Client wraps one OpenAI client for chat and embeddings.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	temperature    float32
	maxTokens      int
}

// NewClient builds a client. BaseURL points it at a compatible server.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", apperrors.ErrValidation)
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 800
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:         openai.NewClientWithConfig(oc),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
	}, nil
}

// Embed implements vectorindex.Embedder.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate embeddings: %v", apperrors.ErrCollaborator, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", apperrors.ErrCollaborator, len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", apperrors.ErrCollaborator, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userMessage string, jsonOutput bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if jsonOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: openai error: %v", apperrors.ErrCollaborator, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from OpenAI", apperrors.ErrCollaborator)
	}
	return resp.Choices[0].Message.Content, nil
}
