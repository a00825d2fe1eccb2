package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/ewbot/internal/adapters/clients"
	"github.com/jsamuelsen/ewbot/internal/domain"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// ErrorResponse is the quote service's error payload.
// The service reports failures as {"error": "..."}; its REST framework
// reports auth and routing failures as {"detail": "..."}.
type ErrorResponse struct {
	Err    *string `json:"error"`
	Detail *string `json:"detail"`
}

// Message returns the error text, preferring "error" over "detail".
func (e *ErrorResponse) Message() string {
	if e.Err != nil && *e.Err != "" {
		return *e.Err
	}

	if e.Detail != nil {
		return *e.Detail
	}

	return ""
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty, not JSON, or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.Message() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed call to a domain error.
//
// Parameters:
//   - resp: the HTTP response (nil when the client returned an error)
//   - clientErr: error from the HTTP client (nil when a response arrived)
//   - serviceName: downstream service name, used for unavailable errors
//   - operation: what was being done, e.g. "get random quote"
//   - entityID: the slug asked for, used for not found errors
//
// When the body carries an error message the result is a *domain.RemoteError
// wrapping the classified error, so callers can both branch with errors.Is
// and show the service's own words.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	classified := mapStatusCode(resp.StatusCode, errResp, serviceName, operation, entityID)

	if errResp == nil {
		return classified
	}

	return domain.NewRemoteError(resp.StatusCode, errResp.Message(), classified)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrRateLimited):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("rate limited during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatusCode classifies any non-200 status. 2xx codes other than 200 are
// treated as unexpected, matching the bot's "200 or failure" contract.
func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation, entityID string) error {
	message := defaultMessageForStatus(status, operation)
	if errResp != nil {
		message = errResp.Message()
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError("source", entityID)

	case http.StatusConflict:
		return domain.NewConflictError(serviceName, message)

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewValidationError("", message)

	case http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)

	case http.StatusUnauthorized:
		return domain.NewForbiddenError(operation, "authentication required")

	default:
		return domain.NewUnavailableError(serviceName, message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "source not found"
	case http.StatusConflict:
		return "resource conflict"
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusUnauthorized:
		return "authentication required"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
