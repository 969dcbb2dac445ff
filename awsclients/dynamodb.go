package awsclients

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Table reads and writes items in a single DynamoDB table using struct
// marshalling via the attributevalue package
type Table struct {
	client dynamoAPI
	name   string
}

func NewTable(awsConfig aws.Config, name string) *Table {
	return &Table{client: dynamodb.NewFromConfig(awsConfig), name: name}
}

// PutItem marshals item and writes it to the table
func (t *Table) PutItem(ctx context.Context, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshalling item: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("writing to table %s: %w", t.name, err)
	}
	return nil
}

// PutItemIfAbsent writes item only if no item with the same value for
// keyAttribute exists. Returns ErrConditionFailed when one does.
func (t *Table) PutItemIfAbsent(ctx context.Context, item any, keyAttribute string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshalling item: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(t.name),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttribute},
	})
	if err != nil {
		if ErrorCodeIs(err, "ConditionalCheckFailedException") {
			return ErrConditionFailed
		}
		return fmt.Errorf("writing to table %s: %w", t.name, err)
	}
	return nil
}

// GetItem reads the item with the given key into out. The key is a map or
// struct holding the partition key and, for composite tables, the sort key.
// Returns ErrNotFound when no item matches.
func (t *Table) GetItem(ctx context.Context, key any, out any) error {
	keyAv, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("marshalling key: %w", err)
	}

	output, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       keyAv,
	})
	if err != nil {
		return fmt.Errorf("reading from table %s: %w", t.name, err)
	}
	if len(output.Item) == 0 {
		return ErrNotFound
	}

	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("unmarshalling item: %w", err)
	}
	return nil
}
