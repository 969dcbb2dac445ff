package awsclients

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {

	t.Run("caller options are applied after the defaults", func(t *testing.T) {
		cfg, err := NewConfig(t.Context(), config.WithRegion("eu-west-2"))
		require.NoError(t, err)
		assert.Equal(t, "eu-west-2", cfg.Region)

		require.NotNil(t, cfg.Retryer)
		assert.IsType(t, &retry.Standard{}, cfg.Retryer())
	})

	t.Run("config is instrumented for tracing on lambda", func(t *testing.T) {
		t.Setenv("LAMBDA_TASK_ROOT", "")
		baseline, err := NewConfig(t.Context(), config.WithRegion("eu-west-2"))
		require.NoError(t, err)

		t.Setenv("LAMBDA_TASK_ROOT", "/var/task")
		cfg, err := NewConfig(t.Context(), config.WithRegion("eu-west-2"))
		require.NoError(t, err)
		assert.Greater(t, len(cfg.APIOptions), len(baseline.APIOptions))
	})
}
