package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bfadmin/internal/common"
)

// APIError is the single error type returned by HTTPClient.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newHTTPError builds the error for a non-2xx response. 401 responses and
// messages mentioning "unauthorized" mean the credential expired.
func newHTTPError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	e := &APIError{Status: status, Message: message}
	if status == http.StatusUnauthorized || strings.Contains(strings.ToLower(message), "unauthorized") {
		e.Err = common.ErrUnauthorized
	}
	return e
}

func newNetworkError(baseURL string, cause error) *APIError {
	return &APIError{
		Message: fmt.Sprintf("cannot connect to backend at %s: %v", baseURL, cause),
		Err:     fmt.Errorf("%w: %w", common.ErrUnavailable, cause),
	}
}

// errorBody is the shape of backend error payloads.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
