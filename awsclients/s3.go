package awsclients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Bucket reads and writes JSON objects in a single S3 bucket
type Bucket struct {
	client s3API
	name   string
}

func NewBucket(awsConfig aws.Config, name string) *Bucket {
	return &Bucket{client: s3.NewFromConfig(awsConfig), name: name}
}

// GetJSON reads the object at key and unmarshals it into out. Returns
// ErrNotFound when the object does not exist.
func (b *Bucket) GetJSON(ctx context.Context, key string, out any) error {
	output, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		if ErrorCodeIn(err, "NoSuchKey", "NotFound") {
			return fmt.Errorf("s3://%s/%s: %w", b.name, key, ErrNotFound)
		}
		return fmt.Errorf("reading s3://%s/%s: %w", b.name, key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return fmt.Errorf("reading s3://%s/%s: %w", b.name, key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshalling s3://%s/%s: %w", b.name, key, err)
	}
	return nil
}

// PutJSON marshals v and writes it to the object at key
func (b *Bucket) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling object: %w", err)
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("writing s3://%s/%s: %w", b.name, key, err)
	}
	return nil
}
