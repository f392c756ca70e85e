package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ModelClient is the slice of the OpenAI client consumed by this service.
// *openai.Client satisfies it; tests substitute their own.
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewModelClient builds the provider client once at startup; handlers receive
// it through their services rather than constructing it per request.
func NewModelClient(apiKey, baseURL string) ModelClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// isProviderQuotaError reports whether a provider failure is a throttling or
// quota condition. The typed *openai.APIError carries the HTTP status; the
// substring check survives only as a fallback at this literal boundary, for
// untyped upstream responses.
func isProviderQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return true
		}
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}
