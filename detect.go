package eventkit

// EventType identifies which Lambda trigger produced an event
type EventType string

const (
	EventAPIGatewayProxy EventType = "apigateway"
	EventAPIGatewayHTTP  EventType = "apigateway-http"
	EventAppSync         EventType = "appsync"
	EventSQS             EventType = "sqs"
	EventSNS             EventType = "sns"
	EventS3              EventType = "s3"
	EventDynamoDBStream  EventType = "dynamodb-stream"
	EventEventBridge     EventType = "eventbridge"
	EventUnknown         EventType = "unknown"
)

// Detect sniffs the shape of a Lambda event without fully unmarshalling it
// into a typed struct. Handlers receiving json.RawMessage can use it to
// dispatch between trigger types wired to the same function.
func Detect(event any) EventType {
	m, err := normalizeEvent(event)
	if err != nil {
		return EventUnknown
	}
	return detectMap(m)
}

func detectMap(m map[string]any) EventType {
	if records, ok := m["Records"].([]any); ok && len(records) > 0 {
		record, _ := records[0].(map[string]any)
		if record == nil {
			return EventUnknown
		}
		//SNS sets EventSource, the others set eventSource
		switch {
		case stringAt(record, "eventSource") == "aws:sqs":
			return EventSQS
		case stringAt(record, "EventSource") == "aws:sns":
			return EventSNS
		case stringAt(record, "eventSource") == "aws:s3":
			return EventS3
		case stringAt(record, "eventSource") == "aws:dynamodb":
			return EventDynamoDBStream
		}
		return EventUnknown
	}

	if stringAt(m, "info", "fieldName") != "" {
		if _, ok := m["arguments"]; ok {
			return EventAppSync
		}
	}

	if stringAt(m, "version") == "2.0" {
		if stringAt(m, "requestContext", "http", "method") != "" {
			return EventAPIGatewayHTTP
		}
	}

	if stringAt(m, "httpMethod") != "" {
		return EventAPIGatewayProxy
	}

	if stringAt(m, "detail-type") != "" && stringAt(m, "source") != "" {
		return EventEventBridge
	}

	return EventUnknown
}

// eventAttrs picks out the handful of identifying attributes worth having in
// an info-level summary line for each trigger type.
func eventAttrs(eventType EventType, m map[string]any) []any {
	switch eventType {
	case EventAPIGatewayProxy:
		return []any{
			"method", stringAt(m, "httpMethod"),
			"path", stringAt(m, "path"),
			"resource", stringAt(m, "resource"),
		}
	case EventAPIGatewayHTTP:
		return []any{
			"method", stringAt(m, "requestContext", "http", "method"),
			"path", stringAt(m, "rawPath"),
		}
	case EventAppSync:
		return []any{
			"field", stringAt(m, "info", "fieldName"),
			"parentType", stringAt(m, "info", "parentTypeName"),
		}
	case EventSQS:
		return append(recordCount(m), "sourceArn", recordString(m, "eventSourceARN"))
	case EventSNS:
		return append(recordCount(m), "topicArn", recordString(m, "Sns", "TopicArn"))
	case EventS3:
		return append(recordCount(m),
			"bucket", recordString(m, "s3", "bucket", "name"),
			"key", recordString(m, "s3", "object", "key"))
	case EventDynamoDBStream:
		return append(recordCount(m), "sourceArn", recordString(m, "eventSourceARN"))
	case EventEventBridge:
		return []any{
			"source", stringAt(m, "source"),
			"detailType", stringAt(m, "detail-type"),
		}
	}
	return nil
}

func recordCount(m map[string]any) []any {
	records, _ := m["Records"].([]any)
	return []any{"records", len(records)}
}

func recordString(m map[string]any, path ...string) string {
	records, _ := m["Records"].([]any)
	if len(records) == 0 {
		return ""
	}
	record, _ := records[0].(map[string]any)
	if record == nil {
		return ""
	}
	return stringAt(record, path...)
}

func stringAt(m map[string]any, path ...string) string {
	value, found := lookup(m, path, false)
	if !found {
		return ""
	}
	s, _ := value.(string)
	return s
}
