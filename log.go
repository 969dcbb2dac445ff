package eventkit

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

type loggerKeyType struct{}

var loggerKey loggerKeyType

// GetLogger returns the logger carried by the context, or slog.Default()
// outside a wrapped handler
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// GetNewContextWithLogger attaches an existing logger to the context
func GetNewContextWithLogger(parent context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(parent, loggerKey, logger)
}

// ContextWithLogger builds the standard JSON logger for one invocation and
// attaches it to the context. The X-Ray trace id and the Lambda request id
// ride on every line so that log entries can be correlated.
func ContextWithLogger(ctx context.Context) context.Context {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))

	if traceID := os.Getenv("_X_AMZN_TRACE_ID"); traceID != "" {
		parts := strings.Split(traceID, ";")
		logger = logger.With("trace_id", strings.Replace(parts[0], "Root=", "", 1))
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}

	return context.WithValue(ctx, loggerKey, logger)
}

func logLevel() slog.Level {
	switch strings.ToLower(GetEnv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEvent writes the two-channel record for an incoming event: an
// info-level summary naming the trigger type and its identifying attributes,
// and the full payload on the debug channel. Setting LOG_EVENT_DETAIL=true
// promotes the payload onto the summary line.
func LogEvent(ctx context.Context, event any) {
	logger := GetLogger(ctx)

	m, err := normalizeEvent(event)
	if err != nil {
		logger.Warn("event summary unavailable", "error", err.Error())
		return
	}

	eventType := detectMap(m)
	attrs := append([]any{"type", string(eventType)}, eventAttrs(eventType, m)...)

	if GetEnv("LOG_EVENT_DETAIL") == "true" {
		attrs = append(attrs, "event", m)
	}

	logger.Info("received event", attrs...)
	logger.Debug("event payload", "event", m)
}
