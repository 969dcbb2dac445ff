package awsclients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

type lambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Invoker performs synchronous JSON invocations of a single lambda function
type Invoker struct {
	client       lambdaAPI
	functionName string
}

func NewInvoker(awsConfig aws.Config, functionName string) *Invoker {
	return &Invoker{client: lambda.NewFromConfig(awsConfig), functionName: functionName}
}

// InvokeJSON marshals payload, invokes the function and unmarshals the
// response into out. Pass nil for out when the response doesn't matter. A
// handled or unhandled error in the invoked function is returned as an error
// carrying the function's error payload.
func (i *Invoker) InvokeJSON(ctx context.Context, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	output, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(i.functionName),
		Payload:      b,
	})
	if err != nil {
		return fmt.Errorf("invoking %s: %w", i.functionName, err)
	}
	if output.FunctionError != nil {
		return fmt.Errorf("function %s failed: %s: %s", i.functionName, *output.FunctionError, string(output.Payload))
	}

	if out != nil && len(output.Payload) > 0 {
		if err := json.Unmarshal(output.Payload, out); err != nil {
			return fmt.Errorf("unmarshalling response from %s: %w", i.functionName, err)
		}
	}
	return nil
}
