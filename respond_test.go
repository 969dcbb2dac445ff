package eventkit

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	response, err := Respond(http.StatusCreated, map[string]any{"id": "42"})
	require.NoError(t, err)

	assert.Equal(t, 201, response.StatusCode)
	assert.Equal(t, "application/json", response.Headers["Content-Type"])
	assert.JSONEq(t, `{"id":"42"}`, response.Body)
}

func TestRespond_UnencodableValue(t *testing.T) {
	_, err := Respond(http.StatusOK, map[string]any{"fn": func() {}})
	assert.Error(t, err)
}

func TestErrorResponse(t *testing.T) {

	testcases := []struct {
		name        string
		err         error
		checkResult func(t *testing.T, response events.APIGatewayProxyResponse)
	}{
		{
			name: "HTTP error keeps its status and message",
			err:  NotFound("no such thing"),
			checkResult: func(t *testing.T, response events.APIGatewayProxyResponse) {
				assert.Equal(t, 404, response.StatusCode)
				assert.JSONEq(t, `{"message":"no such thing"}`, response.Body)
			},
		},
		{
			name: "wrapped HTTP error is unwrapped",
			err:  fmt.Errorf("handling request: %w", Unauthorized("token expired")),
			checkResult: func(t *testing.T, response events.APIGatewayProxyResponse) {
				assert.Equal(t, 401, response.StatusCode)
				assert.JSONEq(t, `{"message":"token expired"}`, response.Body)
			},
		},
		{
			name: "plain error becomes an opaque 500",
			err:  errors.New("pq: connection refused"),
			checkResult: func(t *testing.T, response events.APIGatewayProxyResponse) {
				assert.Equal(t, 500, response.StatusCode)
				assert.JSONEq(t, `{"message":"Internal Server Error"}`, response.Body)
				assert.NotContains(t, response.Body, "connection refused")
			},
		},
		{
			name: "error data is included in the body",
			err: UnprocessableEntity("2 validation errors").WithData(map[string]any{
				"errors": map[string]Issue{
					"body.email": {Status: 422, Message: "email is required"},
					"body.name":  {Status: 422, Message: "name is required"},
				},
			}),
			checkResult: func(t *testing.T, response events.APIGatewayProxyResponse) {
				assert.Equal(t, 422, response.StatusCode)
				assert.JSONEq(t, `{
					"message": "2 validation errors",
					"data": {"errors": {
						"body.email": [422, "email is required"],
						"body.name": [422, "name is required"]
					}}
				}`, response.Body)
			},
		},
		{
			name: "error headers are merged into the response",
			err:  TooManyRequests("slow down").WithHeader("Retry-After", "30"),
			checkResult: func(t *testing.T, response events.APIGatewayProxyResponse) {
				assert.Equal(t, 429, response.StatusCode)
				assert.Equal(t, "30", response.Headers["Retry-After"])
				assert.Equal(t, "application/json", response.Headers["Content-Type"])
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tc.checkResult(t, ErrorResponse(tc.err))
		})
	}
}
