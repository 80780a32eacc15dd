package websocket

import (
	"context"

	"biometric-session-analyzer/src/logger"

	"github.com/aws/aws-lambda-go/events"
)

// Manage handles the $connect and $disconnect routes.
func Manage(ctx context.Context, req events.APIGatewayWebsocketProxyRequest, registry *Registry, log *logger.Logger) (events.APIGatewayProxyResponse, error) {
	connectionID := req.RequestContext.ConnectionID

	switch req.RequestContext.RouteKey {
	case "$connect":
		log.Info("new connection", "connection_id", connectionID)
		if err := registry.Store(ctx, connectionID); err != nil {
			log.Error("failed to store connection", "connection_id", connectionID, "error", err)
			return events.APIGatewayProxyResponse{StatusCode: 500, Body: "Failed to store connection"}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil

	case "$disconnect":
		log.Info("disconnected", "connection_id", connectionID)
		if err := registry.Delete(ctx, connectionID); err != nil {
			log.Error("failed to delete connection", "connection_id", connectionID, "error", err)
			return events.APIGatewayProxyResponse{StatusCode: 500, Body: "Failed to delete connection"}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil

	default:
		return events.APIGatewayProxyResponse{StatusCode: 400, Body: "Invalid request"}, nil
	}
}
