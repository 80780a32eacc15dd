package dynamo

import (
	"context"
	"fmt"

	"biometric-session-analyzer/src/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

const (
	partitionKey = "PK"
	sortKey      = "SK"
	// Sort key for documents addressed without a sub key.
	rootSortKey = "ROOT"
)

// DocumentStore maps each storage collection to a DynamoDB table keyed by
// PK (document id) and SK (sub key).
type DocumentStore struct {
	client dynamodbiface.DynamoDBAPI
	tables map[string]string
}

func NewDocumentStore(client dynamodbiface.DynamoDBAPI, tables map[string]string) *DocumentStore {
	return &DocumentStore{client: client, tables: tables}
}

func (s *DocumentStore) table(key storage.Key) (string, error) {
	name, ok := s.tables[key.Collection]
	if !ok || name == "" {
		return "", fmt.Errorf("no table configured for collection %q", key.Collection)
	}
	return name, nil
}

func itemKey(key storage.Key) map[string]*dynamodb.AttributeValue {
	sk := key.Sub
	if sk == "" {
		sk = rootSortKey
	}
	return map[string]*dynamodb.AttributeValue{
		partitionKey: {S: aws.String(key.ID)},
		sortKey:      {S: aws.String(sk)},
	}
}

func (s *DocumentStore) Put(ctx context.Context, key storage.Key, doc interface{}) error {
	tableName, err := s.table(key)
	if err != nil {
		return err
	}

	item, err := dynamodbattribute.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	for k, v := range itemKey(key) {
		item[k] = v
	}

	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item %s: %w", key, err)
	}

	return nil
}

func (s *DocumentStore) Get(ctx context.Context, key storage.Key, out interface{}) (bool, error) {
	tableName, err := s.table(key)
	if err != nil {
		return false, err
	}

	result, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get item %s: %w", key, err)
	}

	if len(result.Item) == 0 {
		return false, nil
	}

	if err := dynamodbattribute.UnmarshalMap(result.Item, out); err != nil {
		return true, fmt.Errorf("failed to unmarshal item %s: %w", key, err)
	}

	return true, nil
}
