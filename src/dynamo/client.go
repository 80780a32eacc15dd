package dynamo

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

func NewDynamoDBClient(sess *session.Session, region string) *dynamodb.DynamoDB {
	return dynamodb.New(sess, aws.NewConfig().WithRegion(region))
}
