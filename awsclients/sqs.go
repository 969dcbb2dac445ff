package awsclients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Sender sends JSON messages to a single SQS queue
type Sender struct {
	client   sqsAPI
	queueURL string
}

func NewSender(awsConfig aws.Config, queueURL string) *Sender {
	return &Sender{client: sqs.NewFromConfig(awsConfig), queueURL: queueURL}
}

// SendJSON marshals v, sends it to the queue and returns the message ID
func (s *Sender) SendJSON(ctx context.Context, v any) (string, error) {
	return s.send(ctx, v, "")
}

// SendJSONFIFO sends to a FIFO queue using the given message group. The
// queue must have content-based deduplication enabled.
func (s *Sender) SendJSONFIFO(ctx context.Context, v any, groupID string) (string, error) {
	return s.send(ctx, v, groupID)
}

func (s *Sender) send(ctx context.Context, v any, groupID string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshalling message: %w", err)
	}

	input := sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(b)),
	}
	if groupID != "" {
		input.MessageGroupId = aws.String(groupID)
	}

	output, err := s.client.SendMessage(ctx, &input)
	if err != nil {
		return "", fmt.Errorf("sending to %s: %w", s.queueURL, err)
	}
	return aws.ToString(output.MessageId), nil
}
