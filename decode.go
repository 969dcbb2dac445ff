package eventkit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DecodeEnum returns a decoder that accepts only the listed values, matching
// case-insensitively and normalizing to the declared spelling.
func DecodeEnum(values ...string) Decoder {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		for _, candidate := range values {
			if strings.EqualFold(s, candidate) {
				return candidate, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of: %s", s, strings.Join(values, ", "))
	}
}

// DecodeInt accepts JSON numbers and numeric strings and yields an int.
// Fractional numbers are rejected rather than truncated.
func DecodeInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		return i, nil
	default:
		return nil, fmt.Errorf("expected number, got %T", value)
	}
}

// DecodeBool accepts booleans and the string forms strconv.ParseBool accepts
func DecodeBool(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("expected boolean, got %T", value)
	}
}

// DecodeTimeRFC3339 parses a string timestamp into a time.Time
func DecodeTimeRFC3339(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	return time.Parse(time.RFC3339, s)
}

// DecodeUUID parses a string into a uuid.UUID
func DecodeUUID(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	return uuid.Parse(s)
}

// DecodeCSV splits a comma-separated string into its trimmed parts. Useful
// for list-valued query string parameters, which API Gateway delivers as a
// single string.
func DecodeCSV(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// DecodeJSON parses a JSON string value, for sources that deliver nested
// payloads as strings (SNS message bodies, SQS records)
func DecodeJSON(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
