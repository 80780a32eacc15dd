package sagemaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"biometric-session-analyzer/src/inference"
	"biometric-session-analyzer/src/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime/sagemakerruntimeiface"
)

type generationParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// TextGenerator invokes a SageMaker text-generation endpoint.
type TextGenerator struct {
	client       sagemakerruntimeiface.SageMakerRuntimeAPI
	endpointName string
	maxTokens    int
	temperature  float64
	log          *logger.Logger
}

func NewTextGenerator(client sagemakerruntimeiface.SageMakerRuntimeAPI, endpointName string, log *logger.Logger) *TextGenerator {
	return &TextGenerator{
		client:       client,
		endpointName: endpointName,
		maxTokens:    4096,
		temperature:  0.2,
		log:          log,
	}
}

func (g *TextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generationRequest{
		Inputs:     prompt,
		Parameters: generationParameters{MaxNewTokens: g.maxTokens, Temperature: g.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	output, err := g.client.InvokeEndpointWithContext(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(g.endpointName),
		Body:         payload,
		ContentType:  aws.String("application/json"),
		Accept:       aws.String("application/json"),
	})
	if err != nil {
		return "", classify(err)
	}

	var response generationResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response) == 0 {
		return "", fmt.Errorf("endpoint %s returned no generations", g.endpointName)
	}

	g.log.Debug("sagemaker generation received", "endpoint", g.endpointName, "chars", len(response[0].GeneratedText))
	return response[0].GeneratedText, nil
}

// classify marks 503-equivalents as transient and wraps everything else.
func classify(err error) error {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && inference.IsUnavailableStatus(reqErr.StatusCode()) {
		return &inference.TransientError{Provider: "sagemaker", StatusCode: reqErr.StatusCode(), Err: err}
	}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case "ServiceUnavailable", "ModelNotReadyException":
			return &inference.TransientError{Provider: "sagemaker", StatusCode: 503, Err: err}
		}
	}

	return fmt.Errorf("failed to invoke endpoint: %w", err)
}
