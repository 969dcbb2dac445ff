package awsclients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher publishes JSON messages to a single SNS topic
type Publisher struct {
	client   snsAPI
	topicArn string
}

func NewPublisher(awsConfig aws.Config, topicArn string) *Publisher {
	return &Publisher{client: sns.NewFromConfig(awsConfig), topicArn: topicArn}
}

// Attribute is attached to a published message and can be used in
// subscription filter policies
type Attribute struct {
	Key   string
	Value string
}

// PublishJSON marshals v, publishes it to the topic and returns the message ID
func (p *Publisher) PublishJSON(ctx context.Context, v any, attributes ...Attribute) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshalling message: %w", err)
	}

	input := sns.PublishInput{
		TopicArn: aws.String(p.topicArn),
		Message:  aws.String(string(b)),
	}
	if len(attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(attributes))
		for _, a := range attributes {
			input.MessageAttributes[a.Key] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(a.Value),
			}
		}
	}

	output, err := p.client.Publish(ctx, &input)
	if err != nil {
		return "", fmt.Errorf("publishing to %s: %w", p.topicArn, err)
	}
	return aws.ToString(output.MessageId), nil
}
