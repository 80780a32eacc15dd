package websocket

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
)

// NewApiGWClient returns a management API client for the WebSocket stage at
// endpoint, e.g. https://abc.execute-api.eu-west-1.amazonaws.com/prod.
func NewApiGWClient(sess *session.Session, endpoint string) *apigatewaymanagementapi.ApiGatewayManagementApi {
	return apigatewaymanagementapi.New(sess, aws.NewConfig().WithEndpoint(endpoint))
}
