package kinesis

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

const (
	EventKinesis   = "kinesis"
	EventWebsocket = "websocket"
	EventHTTP      = "http"
)

func DetectEventType(event json.RawMessage) (string, error) {
	// Try parsing as a Kinesis event
	var kinesisEvent events.KinesisEvent
	if err := json.Unmarshal(event, &kinesisEvent); err == nil {
		if len(kinesisEvent.Records) > 0 && kinesisEvent.Records[0].EventSource == "aws:kinesis" {
			return EventKinesis, nil
		}
	}

	// Try parsing as an API Gateway WebSocket event
	var websocketEvent events.APIGatewayWebsocketProxyRequest
	if err := json.Unmarshal(event, &websocketEvent); err == nil {
		if websocketEvent.RequestContext.EventType != "" {
			return EventWebsocket, nil
		}
	}

	// Try parsing as an API Gateway HTTP API (payload v2) event
	var httpEvent events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &httpEvent); err == nil {
		if httpEvent.RouteKey != "" && httpEvent.RequestContext.HTTP.Method != "" {
			return EventHTTP, nil
		}
	}

	return "", fmt.Errorf("unknown event type")
}
