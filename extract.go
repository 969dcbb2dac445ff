package eventkit

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
)

// Decoder transforms a raw extracted value into its final form. Returning an
// error records a validation failure for the field; the error's own message
// is not surfaced to clients (set WrongTypeMessage on the Field to control
// the wording).
type Decoder func(value any) (any, error)

const defaultValidationStatus = http.StatusUnprocessableEntity

// Extract walks the schema against a Lambda event and returns the resolved
// values keyed by leaf name. The walk is exhaustive: every field is checked
// and all failures are aggregated into a single *HTTPError whose
// Data["errors"] maps each dotted path to its Issue (see ValidationIssues).
//
// The event may be a map, a json.RawMessage, or any JSON-encodable value such
// as events.APIGatewayProxyRequest. A string body is parsed as JSON first
// (after base64 decoding when isBase64Encoded is set); the caller's event is
// never mutated.
func Extract(schema Schema, event any) (map[string]any, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	working, err := normalizeEvent(event)
	if err != nil {
		return nil, err
	}

	w := &walker{
		event:  working,
		values: map[string]any{},
		issues: map[string]Issue{},
	}
	w.parseBody()
	w.group(nil, Group(schema))
	return w.finish()
}

// normalizeEvent produces the working copy the walk runs against. Maps are
// shallow-copied so that body replacement cannot touch the caller's event;
// everything else is round-tripped through JSON to get the same view of the
// payload that Lambda delivers.
func normalizeEvent(event any) (map[string]any, error) {
	switch v := event.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return maps.Clone(v), nil
	case json.RawMessage:
		return eventFromJSON(v)
	case []byte:
		return eventFromJSON(v)
	default:
		b, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("event is not JSON-encodable: %w", err)
		}
		return eventFromJSON(b)
	}
}

func eventFromJSON(b []byte) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, fmt.Errorf("event is not valid JSON: %w", err)
	}
	if m, ok := decoded.(map[string]any); ok {
		return m, nil
	}
	//A non-object payload has no addressable paths; every lookup misses
	return map[string]any{}, nil
}

type walker struct {
	event  map[string]any
	values map[string]any
	issues map[string]Issue
}

// parseBody replaces a string body with its parsed JSON value in the working
// copy. A body that fails to decode is recorded as a validation error for the
// "body" path and left as-is, so nested body.* fields miss and report their
// own errors.
func (w *walker) parseBody() {
	body, ok := w.event["body"].(string)
	if !ok {
		return
	}

	if encoded, _ := w.event["isBase64Encoded"].(bool); encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			w.issues["body"] = Issue{Status: http.StatusBadRequest, Message: "Invalid base64 in request body"}
			return
		}
		body = string(decoded)
	}

	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		w.issues["body"] = Issue{Status: http.StatusBadRequest, Message: "Invalid JSON in request body"}
		return
	}
	w.event["body"] = parsed
}

func (w *walker) group(prefix []string, g Group) {
	for _, key := range slices.Sorted(maps.Keys(g)) {
		path := append(slices.Clone(prefix), key)

		switch node := g[key].(type) {
		case Field:
			w.field(path, key, node)
		case *Field:
			if node != nil {
				w.field(path, key, *node)
			}
		case Group:
			w.group(path, node)
		}
	}
}

func (w *walker) field(path []string, key string, f Field) {
	dotted := strings.Join(path, ".")

	value, found := lookup(w.event, path, f.CaseInsensitive)
	if !found || value == nil {
		if f.Required {
			w.issues[dotted] = Issue{Status: f.status(), Message: f.notFoundMessage()}
			return
		}
		if f.Default != nil {
			w.values[key] = f.Default
		}
		return
	}

	if f.Type != "" && !f.Type.matches(value) {
		w.issues[dotted] = Issue{Status: f.status(), Message: f.wrongTypeMessage()}
		return
	}

	if f.Decode != nil {
		decoded, err := f.Decode(value)
		if err != nil {
			w.issues[dotted] = Issue{Status: f.status(), Message: f.badFormatMessage()}
			return
		}
		value = decoded
	}

	w.values[key] = value
}

// lookup resolves a dotted path segment by segment. Traversal stops as soon
// as an intermediate value is not an object.
func lookup(event map[string]any, path []string, foldCase bool) (any, bool) {
	var current any = event
	for _, segment := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = segmentValue(m, segment, foldCase)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func segmentValue(m map[string]any, segment string, foldCase bool) (any, bool) {
	if value, ok := m[segment]; ok {
		return value, true
	}
	if !foldCase {
		return nil, false
	}
	//Scan in sorted order so that ambiguous matches resolve deterministically
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if strings.EqualFold(key, segment) {
			return m[key], true
		}
	}
	return nil, false
}

func (t ValueType) matches(value any) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		switch value.(type) {
		case float64, float32, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, json.Number:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeArray:
		kind := reflect.ValueOf(value).Kind()
		return kind == reflect.Slice || kind == reflect.Array
	case TypeObject:
		if _, ok := value.(map[string]any); ok {
			return true
		}
		return reflect.ValueOf(value).Kind() == reflect.Map
	}
	return false
}

func (f Field) status() int {
	if f.StatusCode != 0 {
		return f.StatusCode
	}
	return defaultValidationStatus
}

func (f Field) notFoundMessage() string {
	if f.NotFoundMessage != "" {
		return f.NotFoundMessage
	}
	return f.Label + " is required"
}

func (f Field) wrongTypeMessage() string {
	if f.WrongTypeMessage != "" {
		return f.WrongTypeMessage
	}
	return fmt.Sprintf("%s must be of type %s", f.Label, f.Type)
}

func (f Field) badFormatMessage() string {
	if f.WrongTypeMessage != "" {
		return f.WrongTypeMessage
	}
	return f.Label + " has invalid format"
}

// finish applies the aggregation rules: no issues returns the values, one
// issue is raised as-is, several issues collapse into a single error at the
// highest status code among them. The per-path detail rides on the error in
// every failure case.
func (w *walker) finish() (map[string]any, error) {
	if len(w.issues) == 0 {
		return w.values, nil
	}

	data := map[string]any{"errors": w.issues}

	if len(w.issues) == 1 {
		for _, issue := range w.issues {
			return nil, NewHTTPError(issue.Status, issue.Message).WithData(data)
		}
	}

	counts := map[int]int{}
	for _, issue := range w.issues {
		counts[issue.Status]++
	}

	statuses := slices.Sorted(maps.Keys(counts))
	highest := statuses[len(statuses)-1]

	message := fmt.Sprintf("%d validation errors", len(w.issues))
	if len(statuses) > 1 {
		parts := make([]string, 0, len(statuses))
		for _, status := range statuses {
			parts = append(parts, fmt.Sprintf("%dx%d", counts[status], status))
		}
		message = fmt.Sprintf("%s (%s)", message, strings.Join(parts, ", "))
	}

	return nil, NewHTTPError(highest, message).WithData(data)
}
