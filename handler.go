package eventkit

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/ockendenjo/eventkit/awsclients"
)

// Handler is the generic shape of a lambda handler function
type Handler[T any, U any] func(ctx context.Context, event T) (U, error)

// APIGatewayHandler handles API Gateway REST proxy events
type APIGatewayHandler = Handler[events.APIGatewayProxyRequest, events.APIGatewayProxyResponse]

// WithEventLogging wraps a handler so that every invocation gets a
// context-carried logger, logs a summary of its incoming event, and logs any
// failure before the error is handed back to the runtime
func WithEventLogging[T any, U any](handlerFunc Handler[T, U]) Handler[T, U] {
	return func(ctx context.Context, event T) (U, error) {
		ctx = ContextWithLogger(ctx)
		LogEvent(ctx, event)

		response, err := handlerFunc(ctx, event)
		if err != nil {
			GetLogger(ctx).Error("lambda execution failed", "error", err.Error())
		}
		return response, err
	}
}

// WrapAPIGateway converts handler errors into API Gateway responses, so that
// synchronous callers always receive a well-formed JSON error body with the
// right status code instead of a Lambda invocation error.
func WrapAPIGateway(handlerFunc APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		response, err := handlerFunc(ctx, event)
		if err == nil {
			return response, nil
		}

		logger := GetLogger(ctx)
		if StatusOf(err) >= http.StatusInternalServerError {
			logger.Error("request failed", "error", err.Error())
		} else {
			logger.Info("request rejected", "error", err.Error())
		}
		return ErrorResponse(err), nil
	}
}

type Builder[T any, U any] struct {
	ctx        context.Context
	awsConfig  aws.Config
	getHandler func(awsConfig aws.Config) Handler[T, U]
}

func Build[T any, U any](getHandler func(awsConfig aws.Config) Handler[T, U]) *Builder[T, U] {
	ctx := context.Background()

	return &Builder[T, U]{
		ctx:        ctx,
		awsConfig:  loadAWSConfig(ctx),
		getHandler: getHandler,
	}
}

func loadAWSConfig(ctx context.Context) aws.Config {
	cfg, err := awsclients.NewConfig(ctx)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}
	return cfg
}

func (b *Builder[T, U]) Start() {
	if IsLambda() {
		handlerFn := b.getHandler(b.awsConfig)
		lambda.Start(WithEventLogging(handlerFn))
		return
	}

	startLocally(b.ctx, b.awsConfig, b.getHandler)
}

// BuildAndStart configures the AWS SDK with a standard retryer, instruments
// it for X-Ray, wraps the handler with event logging and then starts the
// lambda runtime. Outside Lambda it starts the local HTTP harness instead.
func BuildAndStart[T any, U any](getHandler func(awsConfig aws.Config) Handler[T, U]) {
	Build(getHandler).Start()
}

// BuildAndStartCustomResource starts a lambda implementing a CloudFormation
// custom resource with the same SDK setup and logging as BuildAndStart.
// cfn.LambdaWrap takes care of reporting the outcome back to CloudFormation,
// so custom resource handlers have no local run mode.
func BuildAndStartCustomResource(getHandler func(awsConfig aws.Config) cfn.CustomResourceFunction) {
	ctx := context.Background()
	cfg := loadAWSConfig(ctx)
	handlerFn := getHandler(cfg)

	lambda.Start(cfn.LambdaWrap(func(ctx context.Context, event cfn.Event) (physicalResourceID string, data map[string]any, err error) {
		return handlerFn(ContextWithLogger(ctx), event)
	}))
}
