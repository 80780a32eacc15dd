package llm

import (
	"context"
	"errors"
	"fmt"

	"biometric-session-analyzer/src/inference"
	"biometric-session-analyzer/src/logger"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a clinical wellness analyst. Reply with exactly one JSON object and no surrounding prose."

// OpenAIClient completes prompts with the chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

// NewOpenAIClient builds a client for apiKey. baseURL overrides the API
// endpoint when set, which also allows OpenAI-compatible gateways.
func NewOpenAIClient(apiKey, model, baseURL string, log *logger.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
		log.Warn("openai model not set, using default", "model", model)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	log.Info("initializing openai client", "model", model)
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	o.log.Debug("openai completion received", "model", o.model, "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if inference.IsUnavailableStatus(status) {
		return &inference.TransientError{Provider: "openai", StatusCode: status, Err: err}
	}
	return fmt.Errorf("openai completion failed: %w", err)
}
