package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ahmedtravel/playbook/internal/adapters/clients"
	"github.com/ahmedtravel/playbook/internal/domain"
)

// ErrorResponse is a supplier error body. Suppliers disagree on shape, so
// both {"error":{"code","message","details"}} and a flat {"code","message"}
// decode into it.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested error object. Details maps product fields to
// the supplier's complaint about them.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetCode returns the code from whichever shape carried it.
func (e *ErrorResponse) GetCode() string {
	return firstNonEmpty(e.Error.Code, e.Code)
}

// GetMessage returns the message from whichever shape carried it.
func (e *ErrorResponse) GetMessage() string {
	return firstNonEmpty(e.Error.Message, e.Message)
}

// ParseErrorResponse decodes a supplier error body, or returns nil when
// there is nothing usable in it.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var er ErrorResponse
	if json.NewDecoder(body).Decode(&er) != nil || (er.GetCode() == "" && er.GetMessage() == "") {
		return nil
	}

	return &er
}

// MapHTTPError turns a failed supplier call into a domain error so nothing
// above the ACL sees HTTP. A transport error takes precedence over resp and
// a 2xx response maps to nil. entityID names the resource in not-found and
// record validation errors.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	switch {
	case clientErr != nil:
		return domain.NewUnavailableError(serviceName, transportReason(clientErr, operation))
	case resp == nil:
		return domain.NewUnavailableError(serviceName, "no response received")
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	}

	var body *ErrorResponse
	if resp.Body != nil {
		body = ParseErrorResponse(resp.Body)
	}

	message := fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	if body != nil && body.GetMessage() != "" {
		message = body.GetMessage()
	}

	switch status := resp.StatusCode; {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, entityID)
	case status == http.StatusConflict:
		return domain.NewConflictError(serviceName, message)
	case status == http.StatusUnauthorized:
		return domain.NewForbiddenError(operation, "supplier rejected our credentials")
	case status == http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)
	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")
	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)
	case body != nil && len(body.Error.Details) > 0:
		return &domain.RecordValidationError{Record: entityID, Fields: body.Error.Details}
	default:
		return domain.NewValidationError("", message)
	}
}

func transportReason(err error, operation string) string {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return "circuit breaker open during " + operation
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return "max retries exceeded during " + operation
	default:
		return fmt.Sprintf("%s failed: %v", operation, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
