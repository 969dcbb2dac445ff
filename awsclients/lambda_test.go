package awsclients

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLambdaClient struct {
	input  *lambda.InvokeInput
	output *lambda.InvokeOutput
	err    error
}

func (c *testLambdaClient) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	c.input = params
	if c.err != nil {
		return nil, c.err
	}
	return c.output, nil
}

func TestInvoker_InvokeJSON(t *testing.T) {

	t.Run("round-trips the payloads", func(t *testing.T) {
		client := &testLambdaClient{output: &lambda.InvokeOutput{
			StatusCode: 200,
			Payload:    []byte(`{"greeting":"hello"}`),
		}}
		invoker := &Invoker{client: client, functionName: "greeter"}

		var out struct {
			Greeting string `json:"greeting"`
		}
		err := invoker.InvokeJSON(t.Context(), map[string]any{"name": "jo"}, &out)
		require.NoError(t, err)

		assert.Equal(t, "greeter", aws.ToString(client.input.FunctionName))
		assert.JSONEq(t, `{"name":"jo"}`, string(client.input.Payload))
		assert.Equal(t, "hello", out.Greeting)
	})

	t.Run("nil output skips response decoding", func(t *testing.T) {
		client := &testLambdaClient{output: &lambda.InvokeOutput{
			StatusCode: 200,
			Payload:    []byte(`{"ignored":true}`),
		}}
		invoker := &Invoker{client: client, functionName: "greeter"}

		err := invoker.InvokeJSON(t.Context(), map[string]any{"name": "jo"}, nil)
		assert.NoError(t, err)
	})

	t.Run("function errors are surfaced with their payload", func(t *testing.T) {
		client := &testLambdaClient{output: &lambda.InvokeOutput{
			StatusCode:    200,
			FunctionError: aws.String("Unhandled"),
			Payload:       []byte(`{"errorMessage":"runtime exited"}`),
		}}
		invoker := &Invoker{client: client, functionName: "greeter"}

		err := invoker.InvokeJSON(t.Context(), map[string]any{}, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "Unhandled")
		assert.ErrorContains(t, err, "runtime exited")
	})

	t.Run("API failures are wrapped", func(t *testing.T) {
		client := &testLambdaClient{err: errors.New("function not found")}
		invoker := &Invoker{client: client, functionName: "greeter"}

		err := invoker.InvokeJSON(t.Context(), map[string]any{}, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "greeter")
	})
}
