package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// OpenAIVisionName identifies the remote vision client.
	OpenAIVisionName = "openai"

	openAIVisionDefaultModel = openai.ChatModelGPT4o
)

// OpenAIVisionConfig holds configuration for the OpenAI vision client.
type OpenAIVisionConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	BaseURL     string       // Optional (tests)
	HTTPClient  *http.Client // Optional (tests)
}

// OpenAIVisionClient implements VisionClient using the official OpenAI SDK.
type OpenAIVisionClient struct {
	model       string
	temperature float64
	maxTokens   int
	client      openai.Client
}

// NewOpenAIVisionClient creates a new OpenAI vision client.
func NewOpenAIVisionClient(cfg OpenAIVisionConfig) *OpenAIVisionClient {
	if cfg.Model == "" {
		cfg.Model = openAIVisionDefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Retries are owned by the caller's backoff policy, not the SDK.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIVisionClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIVisionClient) Name() string {
	return OpenAIVisionName
}

// Complete sends a chat completion with optional image attachments.
func (c *OpenAIVisionClient) Complete(ctx context.Context, systemPrompt, userContent string, images [][]byte) (string, error) {
	var userMsg openai.ChatCompletionMessageParamUnion
	if len(images) == 0 {
		userMsg = openai.UserMessage(userContent)
	} else {
		parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
		parts = append(parts, openai.TextContentPart(userContent))
		for _, img := range images {
			url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
		}
		userMsg = openai.UserMessage(parts)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			userMsg,
		},
		MaxTokens: openai.Int(int64(c.maxTokens)),
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// mapOpenAIError converts SDK errors into the package error taxonomy so
// that rate limits stay distinguishable from terminal failures.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Duration(0)
			if apiErr.Response != nil {
				retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return &RateLimitError{
				Message:    fmt.Sprintf("openai rate limited: %s", apiErr.Message),
				RetryAfter: retryAfter,
				StatusCode: apiErr.StatusCode,
			}
		}
		if apiErr.Message != "" {
			return fmt.Errorf("openai completion error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("openai completion error (status %d)", apiErr.StatusCode)
	}
	return err
}

var _ VisionClient = (*OpenAIVisionClient)(nil)
