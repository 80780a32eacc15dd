package websocket

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// Connection is one subscribed dashboard, stored in the connections table.
type Connection struct {
	ConnectionID string `json:"connectionId"`
}

// Registry keeps the connection ids of subscribed dashboards.
type Registry struct {
	client    dynamodbiface.DynamoDBAPI
	tableName string
}

func NewRegistry(client dynamodbiface.DynamoDBAPI, tableName string) *Registry {
	return &Registry{client: client, tableName: tableName}
}

// GetActiveConnections scans every page of the connections table.
func (r *Registry) GetActiveConnections(ctx context.Context) ([]Connection, error) {
	var connections []Connection
	var pageErr error

	err := r.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)},
		func(page *dynamodb.ScanOutput, lastPage bool) bool {
			var batch []Connection
			if pageErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); pageErr != nil {
				return false
			}
			connections = append(connections, batch...)
			return true
		})
	if err != nil {
		return nil, err
	}
	return connections, pageErr
}

func (r *Registry) Store(ctx context.Context, connectionID string) error {
	item, err := dynamodbattribute.MarshalMap(Connection{ConnectionID: connectionID})
	if err != nil {
		return err
	}
	_, err = r.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *Registry) Delete(ctx context.Context, connectionID string) error {
	_, err := r.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       map[string]*dynamodb.AttributeValue{"connectionId": {S: aws.String(connectionID)}},
	})
	return err
}
