package eventkit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Respond builds an API Gateway proxy response with a JSON body
func Respond(status int, v any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

type errorBody struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// ErrorResponse converts an error into the API Gateway response a handler
// should return for it. An HTTPError keeps its status code, message, data
// and headers; any other error becomes a plain 500 so that internal details
// never reach the client.
func ErrorResponse(err error) events.APIGatewayProxyResponse {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = InternalServerError("")
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for key, value := range httpErr.Headers {
		headers[key] = value
	}

	body, marshalErr := json.Marshal(errorBody{Message: httpErr.Message, Data: httpErr.Data})
	if marshalErr != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"message":"Internal Server Error"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: httpErr.Status,
		Headers:    headers,
		Body:       string(body),
	}
}
