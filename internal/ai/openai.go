package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/hszk-dev/mediamind/internal/domain/model"
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("model returned empty content")

const (
	DefaultTranscriptionModel = openai.Whisper1
	DefaultChatModel          = openai.GPT4oMini
	DefaultTemperature        = 0.5
)

// openAIAPI is the subset of *openai.Client used by OpenAIClient.
type openAIAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIConfig holds OpenAI connection and model settings.
type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	ChatModel          string
	Temperature        float32
}

// OpenAIClient implements Transcriber and TextGenerator with the OpenAI API.
type OpenAIClient struct {
	api                openAIAPI
	transcriptionModel string
	chatModel          string
	temperature        float32
}

var (
	_ Transcriber   = (*OpenAIClient)(nil)
	_ TextGenerator = (*OpenAIClient)(nil)
)

// NewOpenAIClient creates a client from cfg.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newOpenAIClientWithAPI(openai.NewClientWithConfig(clientCfg), cfg)
}

// newOpenAIClientWithAPI creates a client with a custom API implementation.
// This is primarily used for testing.
func newOpenAIClientWithAPI(api openAIAPI, cfg OpenAIConfig) *OpenAIClient {
	c := &OpenAIClient{
		api:                api,
		transcriptionModel: cfg.TranscriptionModel,
		chatModel:          cfg.ChatModel,
		temperature:        cfg.Temperature,
	}
	if c.transcriptionModel == "" {
		c.transcriptionModel = DefaultTranscriptionModel
	}
	if c.chatModel == "" {
		c.chatModel = DefaultChatModel
	}
	return c
}

// Transcribe uploads the audio at path to the speech-to-text endpoint.
func (c *OpenAIClient) Transcribe(ctx context.Context, path, label string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open audio: %v", model.ErrProcessing, err)
	}
	defer f.Close()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		Reader:   f,
		FilePath: filepath.Base(path),
	})
	if err != nil {
		slog.Warn("transcription failed", "label", label, "error", err)
		return "", fmt.Errorf("%w: %v", model.ErrTranscription, err)
	}

	return resp.Text, nil
}

// Generate runs a chat completion with a system and a user message.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
