// Package awsclients provides thin wrappers around AWS SDK service clients
// for the handful of operations lambda handlers perform over and over:
// publishing a message, sending to a queue, reading and writing JSON objects,
// invoking another function. Each wrapper takes a minimal client interface so
// tests can substitute fakes without mocking the whole SDK client.
package awsclients

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/ratelimit"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-xray-sdk-go/v2/instrumentation/awsv2"
)

// NewConfig loads the default AWS configuration with the retry settings used
// across this module. When running on Lambda the config is instrumented for
// X-Ray tracing.
func NewConfig(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(so *retry.StandardOptions) {
				//Use a large number so that the SDK client shouldn't run out of retry attempts
				//Note that this is not the number of times it will retry per API call but the number of times
				//it might retry during the client lifetime
				so.RateLimiter = ratelimit.NewTokenRateLimit(1_000_000)
			})
		}),
		config.WithResponseChecksumValidation(aws.ResponseChecksumValidationWhenRequired),
	}
	opts = append(opts, optFns...)

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}

	if os.Getenv("LAMBDA_TASK_ROOT") != "" {
		//Instrument the AWS SDK - this needs to happen before any service clients are created
		awsv2.AWSV2Instrumentor(&cfg.APIOptions)
	}
	return cfg, nil
}
