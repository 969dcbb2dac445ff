package eventkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// SQSRecordProcessor handles one message from an SQS batch
type SQSRecordProcessor func(ctx context.Context, record events.SQSMessage) error

// SQSHandler handles SQS events with partial batch failure reporting
type SQSHandler = Handler[events.SQSEvent, events.SQSEventResponse]

// JSONRecordProcessor adapts a typed processor into an SQSRecordProcessor by
// unmarshalling each record body. A body that fails to unmarshal fails the
// record, which sends it back to the queue and eventually to the DLQ.
func JSONRecordProcessor[T any](process func(ctx context.Context, message T) error) SQSRecordProcessor {
	return func(ctx context.Context, record events.SQSMessage) error {
		var message T
		if err := json.Unmarshal([]byte(record.Body), &message); err != nil {
			return fmt.Errorf("JSON unmarshal of record body failed: %w", err)
		}
		return process(ctx, message)
	}
}

// GetSQSHandler returns a lambda handler that processes each SQS message in
// parallel using the provided processRecord function. Failed and timed-out
// records are reported as partial batch failures so that only they return to
// the queue; whether a failure is logged at error or info level follows
// IsErrorRetryable.
func GetSQSHandler(processRecord SQSRecordProcessor) SQSHandler {

	process := func(ctx context.Context, record events.SQSMessage, successChannel chan bool) {
		logger := GetLogger(ctx)

		defer func() {
			if r := recover(); r != nil {
				strStack := getStackTraceAsSlice(debug.Stack())
				logger.Error(fmt.Sprintf("goroutine panicked: %v", r), "panicStack", strStack)
				successChannel <- false
			}
		}()

		err := processRecord(ctx, record)
		if err != nil {
			if IsErrorRetryable(err) {
				logger.Info("processing returned error", "error", err.Error(), "body", record.Body)
			} else {
				logger.Error("processing returned error", "error", err.Error(), "body", record.Body)
			}
			successChannel <- false
			return
		}
		successChannel <- true
	}

	return func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		deadline, hasDeadline := ctx.Deadline()
		if !hasDeadline {
			return events.SQSEventResponse{}, errors.New("context must have a deadline set")
		}
		//Leave a margin so that failures can still be reported before the
		//invocation itself times out
		deadline = deadline.Add(-500 * time.Millisecond)
		subCtx, cancel := context.WithDeadline(ctx, deadline)
		defer cancel()

		//Process each SQS message in its own goroutine
		routines := make([]*routineData, 0, len(event.Records))
		for _, record := range event.Records {
			c := make(chan bool, 1)
			recordCtx := GetNewContextWithLogger(subCtx, GetLogger(ctx).With("messageId", record.MessageId))

			data := routineData{
				successChannel: c,
				record:         record,
				ctx:            recordCtx,
				//Need a timer for each goroutine because the channel only receives one value
				timeoutTimer: time.NewTimer(time.Until(deadline)),
			}
			routines = append(routines, &data)
			go process(recordCtx, record, c)
		}

		//For each goroutine, wait for the result or the timeout
		wg := sync.WaitGroup{}
		for _, routine := range routines {
			wg.Add(1)
			go func(r *routineData) {
				defer wg.Done()
				select {
				case success := <-r.successChannel:
					r.timeoutTimer.Stop()
					if !success {
						r.failed = true
					}
				case <-r.timeoutTimer.C:
					r.timedOut = true
				}
			}(routine)
		}

		//Collect the failures
		wg.Wait()
		failures := []events.SQSBatchItemFailure{}
		for _, r := range routines {
			if r.timedOut {
				GetLogger(r.ctx).Info("message processing timed out")
			}

			if r.failed || r.timedOut {
				failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: r.record.MessageId})
				GetLogger(r.ctx).Info("message returned to queue for retry")
			}
		}

		if GetEnv("METRIC_NAMESPACE") != "" {
			Metric(ctx, "BatchItemFailures").Value(len(failures))
		}

		return events.SQSEventResponse{BatchItemFailures: failures}, nil
	}
}

type routineData struct {
	successChannel chan bool
	record         events.SQSMessage
	timeoutTimer   *time.Timer
	failed         bool
	timedOut       bool
	ctx            context.Context
}

func getStackTraceAsSlice(stack []byte) []string {
	byteParts := bytes.Split(stack, []byte("\n"))
	strParts := make([]string, 0, len(byteParts))
	for _, part := range byteParts {
		strPart := string(bytes.TrimSpace(part))
		if strPart != "" {
			strParts = append(strParts, strPart)
		}
	}
	return strParts
}
