package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"biometric-session-analyzer/src/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DocumentStore keeps one JSON object per document under
// <prefix><collection>/<id>[/<sub>].json.
type DocumentStore struct {
	client s3iface.S3API
	bucket string
	prefix string
}

func NewDocumentStore(client s3iface.S3API, bucket, prefix string) *DocumentStore {
	return &DocumentStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *DocumentStore) objectKey(key storage.Key) string {
	name := path.Join(key.Collection, key.ID)
	if key.Sub != "" {
		name = path.Join(name, key.Sub)
	}
	return s.prefix + name + ".json"
}

func (s *DocumentStore) Put(ctx context.Context, key storage.Key, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}

func (s *DocumentStore) Get(ctx context.Context, key storage.Key, out interface{}) (bool, error) {
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(content, out); err != nil {
		return true, fmt.Errorf("failed to parse %s: %w", key, err)
	}

	return true, nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound"
}
