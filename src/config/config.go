package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendS3       = "s3"
	BackendMemory   = "memory"

	ProviderOpenAI    = "openai"
	ProviderSageMaker = "sagemaker"
	ProviderNone      = "none"
)

type Config struct {
	ServiceName string
	LogMode     string
	AWSRegion   string

	StorageBackend   string
	SessionsTable    string
	ChunksTable      string
	ConnectionsTable string
	S3Bucket         string
	S3Prefix         string

	InferenceProvider    string
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIBaseURL        string
	SageMakerEndpoint    string
	InferenceMaxAttempts int
	DownsampleLength     int
	APIGatewayURL        string
}

func Default() Config {
	return Config{
		ServiceName:          "biometric-session-analyzer",
		LogMode:              "prod",
		AWSRegion:            "eu-west-1",
		StorageBackend:       BackendDynamoDB,
		SessionsTable:        "BiometricSessions",
		ChunksTable:          "BiometricSessionChunks",
		ConnectionsTable:     "WebSocketConnections",
		S3Prefix:             "sessions/",
		InferenceProvider:    ProviderNone,
		OpenAIModel:          "gpt-4o-mini",
		InferenceMaxAttempts: 3,
		DownsampleLength:     60,
	}
}

// LoadFromEnv overlays environment variables on the defaults.
func LoadFromEnv() (Config, error) {
	c := Default()

	setString(&c.ServiceName, "SERVICE_NAME")
	setString(&c.LogMode, "LOG_MODE")
	setString(&c.AWSRegion, "AWS_REGION")
	setString(&c.StorageBackend, "STORAGE_BACKEND")
	setString(&c.SessionsTable, "SESSIONS_TABLE")
	setString(&c.ChunksTable, "SESSION_CHUNKS_TABLE")
	setString(&c.ConnectionsTable, "CONNECTIONS_TABLE")
	setString(&c.S3Bucket, "S3_BUCKET_NAME")
	setString(&c.S3Prefix, "S3_PREFIX")
	setString(&c.InferenceProvider, "INFERENCE_PROVIDER")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.OpenAIModel, "OPENAI_MODEL")
	setString(&c.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.SageMakerEndpoint, "SAGEMAKER_ENDPOINT_NAME")
	setString(&c.APIGatewayURL, "API_GATEWAY_URL")

	if err := setInt(&c.InferenceMaxAttempts, "INFERENCE_MAX_ATTEMPTS"); err != nil {
		return c, err
	}
	if err := setInt(&c.DownsampleLength, "DOWNSAMPLE_LENGTH"); err != nil {
		return c, err
	}

	c.StorageBackend = strings.ToLower(c.StorageBackend)
	c.InferenceProvider = strings.ToLower(c.InferenceProvider)

	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendDynamoDB:
		if c.SessionsTable == "" || c.ChunksTable == "" {
			return fmt.Errorf("dynamodb backend requires SESSIONS_TABLE and SESSION_CHUNKS_TABLE")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 backend requires S3_BUCKET_NAME")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.InferenceProvider {
	case ProviderOpenAI, ProviderNone:
	case ProviderSageMaker:
		if c.SageMakerEndpoint == "" {
			return fmt.Errorf("sagemaker provider requires SAGEMAKER_ENDPOINT_NAME")
		}
	default:
		return fmt.Errorf("unknown INFERENCE_PROVIDER %q", c.InferenceProvider)
	}

	if c.InferenceMaxAttempts < 1 {
		return fmt.Errorf("INFERENCE_MAX_ATTEMPTS must be at least 1, got %d", c.InferenceMaxAttempts)
	}
	if c.DownsampleLength < 1 {
		return fmt.Errorf("DOWNSAMPLE_LENGTH must be at least 1, got %d", c.DownsampleLength)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
