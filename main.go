package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"biometric-session-analyzer/src/api"
	"biometric-session-analyzer/src/config"
	"biometric-session-analyzer/src/dynamo"
	"biometric-session-analyzer/src/inference"
	"biometric-session-analyzer/src/integration"
	"biometric-session-analyzer/src/kinesis"
	"biometric-session-analyzer/src/llm"
	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/retry"
	"biometric-session-analyzer/src/s3store"
	"biometric-session-analyzer/src/sagemaker"
	"biometric-session-analyzer/src/storage"
	"biometric-session-analyzer/src/timeseries"
	"biometric-session-analyzer/src/websocket"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime"
)

type app struct {
	log         *logger.Logger
	http        *api.Handler
	ingest      *kinesis.Handler
	connections *websocket.Registry
}

func newApp(cfg config.Config, log *logger.Logger) (*app, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	dynamoDB := dynamo.NewDynamoDBClient(sess, cfg.AWSRegion)

	docs, err := newDocumentStore(cfg, sess, dynamoDB)
	if err != nil {
		return nil, err
	}
	store := timeseries.NewStore(docs, log.With("component", "timeseries"),
		timeseries.WithDownsampleLength(cfg.DownsampleLength))

	completer, err := newCompleter(cfg, sess, log.With("component", "inference"))
	if err != nil {
		return nil, err
	}
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.InferenceMaxAttempts
	engine := integration.NewEngine(completer, log.With("component", "integration"), integration.WithRetryPolicy(policy))

	connections := websocket.NewRegistry(dynamoDB, cfg.ConnectionsTable)

	var publisher api.Publisher
	if cfg.APIGatewayURL != "" {
		publisher = websocket.NewNotifier(connections, websocket.NewApiGWClient(sess, cfg.APIGatewayURL), log.With("component", "websocket"))
	} else {
		log.Warn("API_GATEWAY_URL not set, websocket push disabled")
	}

	return &app{
		log:         log,
		http:        api.NewHandler(store, engine, publisher, log.With("component", "api")),
		ingest:      kinesis.NewHandler(store, publisher, log.With("component", "kinesis")),
		connections: connections,
	}, nil
}

func newDocumentStore(cfg config.Config, sess *session.Session, dynamoDB dynamodbiface.DynamoDBAPI) (storage.DocumentStore, error) {
	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		return dynamo.NewDocumentStore(dynamoDB, map[string]string{
			timeseries.SessionsCollection: cfg.SessionsTable,
			timeseries.ChunksCollection:   cfg.ChunksTable,
		}), nil
	case config.BackendS3:
		return s3store.NewDocumentStore(s3.New(sess), cfg.S3Bucket, cfg.S3Prefix), nil
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// newCompleter returns nil when no inference service is usable, which makes
// the engine fall back to its deterministic analysis.
func newCompleter(cfg config.Config, sess *session.Session, log *logger.Logger) (inference.Completer, error) {
	switch cfg.InferenceProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, using fallback analysis")
			return nil, nil
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderSageMaker:
		return sagemaker.NewTextGenerator(sagemakerruntime.New(sess), cfg.SageMakerEndpoint, log), nil
	default:
		return nil, nil
	}
}

// handle determines which handler to run based on the event type.
func (a *app) handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	eventType, err := kinesis.DetectEventType(event)
	if err != nil {
		a.log.Error("error detecting event type", "error", err)
		return nil, err
	}

	switch eventType {
	case kinesis.EventKinesis:
		var kinesisEvent events.KinesisEvent
		if err := json.Unmarshal(event, &kinesisEvent); err != nil {
			return nil, fmt.Errorf("error unmarshalling kinesis event: %w", err)
		}
		return nil, a.ingest.Handle(ctx, kinesisEvent)

	case kinesis.EventWebsocket:
		var websocketEvent events.APIGatewayWebsocketProxyRequest
		if err := json.Unmarshal(event, &websocketEvent); err != nil {
			return nil, fmt.Errorf("error unmarshalling websocket event: %w", err)
		}
		return websocket.Manage(ctx, websocketEvent, a.connections, a.log)

	case kinesis.EventHTTP:
		var httpEvent events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(event, &httpEvent); err != nil {
			return nil, fmt.Errorf("error unmarshalling http event: %w", err)
		}
		return a.http.HandleHTTP(ctx, httpEvent)

	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode, cfg.ServiceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	log.Info("starting",
		"storage_backend", cfg.StorageBackend,
		"inference_provider", cfg.InferenceProvider,
	)
	lambda.Start(a.handle)
}
