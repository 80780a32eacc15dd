package websocket

import (
	"context"
	"errors"
	"fmt"

	"biometric-session-analyzer/src/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi/apigatewaymanagementapiiface"
)

// Notifier pushes payloads to every registered connection.
type Notifier struct {
	registry *Registry
	client   apigatewaymanagementapiiface.ApiGatewayManagementApiAPI
	log      *logger.Logger
}

func NewNotifier(registry *Registry, client apigatewaymanagementapiiface.ApiGatewayManagementApiAPI, log *logger.Logger) *Notifier {
	return &Notifier{registry: registry, client: client, log: log}
}

// PostMessage sends payload to all connections. A failed send is logged and
// does not stop the others; connections that are gone are unregistered.
// It returns the number of successful sends.
func (n *Notifier) PostMessage(ctx context.Context, payload []byte) (int, error) {
	connections, err := n.registry.GetActiveConnections(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve connections: %w", err)
	}

	sent := 0
	for _, conn := range connections {
		_, err := n.client.PostToConnectionWithContext(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(conn.ConnectionID),
			Data:         payload,
		})
		if err == nil {
			sent++
			continue
		}

		if isGone(err) {
			n.log.Info("removing stale connection", "connection_id", conn.ConnectionID)
			if derr := n.registry.Delete(ctx, conn.ConnectionID); derr != nil {
				n.log.Warn("failed to remove stale connection", "connection_id", conn.ConnectionID, "error", derr)
			}
			continue
		}
		n.log.Warn("error sending to connection", "connection_id", conn.ConnectionID, "error", err)
	}
	return sent, nil
}

func isGone(err error) bool {
	var aerr awserr.Error
	return errors.As(err, &aerr) && aerr.Code() == apigatewaymanagementapi.ErrCodeGoneException
}
