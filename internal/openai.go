package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// APIErrorKind is a closed classification of provider failures. The
// pipeline and summarizer branch on this enum rather than on error text.
type APIErrorKind int

const (
	APIErrorGeneric APIErrorKind = iota
	APIErrorAuth
	APIErrorRateLimited
	APIErrorQuota
)

// String returns a human-readable representation of the error kind
func (k APIErrorKind) String() string {
	switch k {
	case APIErrorAuth:
		return "authentication"
	case APIErrorRateLimited:
		return "rate limited"
	case APIErrorQuota:
		return "quota exceeded"
	default:
		return "generic"
	}
}

// APIError wraps a provider error with its classification.
type APIError struct {
	Kind APIErrorKind
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai (%s): %v", e.Kind, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyAPIError maps a provider error onto the APIErrorKind enum. The
// HTTP status is authoritative where available; quota exhaustion has no
// stable status of its own, so the 429 case additionally matches known
// substrings of the provider's message. That substring shim is
// version-fragile and deliberately confined to this one function.
func classifyAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	kind := APIErrorGeneric
	message := strings.ToLower(err.Error())

	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		switch oaiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = APIErrorAuth
		case http.StatusTooManyRequests:
			kind = APIErrorRateLimited
		}
	}

	if strings.Contains(message, "insufficient_quota") ||
		strings.Contains(message, "exceeded your current quota") ||
		strings.Contains(message, "billing") {
		kind = APIErrorQuota
	} else if kind == APIErrorGeneric && strings.Contains(message, "rate limit") {
		kind = APIErrorRateLimited
	}

	return &APIError{Kind: kind, Err: err}
}

// SpeechClient is the boundary to the hosted speech-to-text and chat
// completion API. Implementations return *APIError for provider failures.
type SpeechClient interface {
	Transcribe(ctx context.Context, file *os.File, language string) (string, error)
	Complete(ctx context.Context, prompt string, maxTokens int64) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client using the given chat model
// for completions.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client, model: model}
}

// Transcribe sends one audio segment to Whisper and returns plain text.
func (c *OpenAIClient) Transcribe(ctx context.Context, file *os.File, language string) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           file,
		Model:          openai.AudioModelWhisper1,
		Language:       openai.String(language),
		ResponseFormat: openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	return resp.Text, nil
}

// Complete sends a single-user-message chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &APIError{Kind: APIErrorGeneric, Err: errors.New("no response choices from OpenAI")}
	}
	return resp.Choices[0].Message.Content, nil
}
