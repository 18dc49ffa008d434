package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// GenericFaultMessage is shown for backend faults that carry no usable detail
const GenericFaultMessage = "There was a failure, please try again later, " +
	"if the problem persists, please contact support."

// DeniedMessage is shown for authorization failures
const DeniedMessage = "You do not have permission to perform this action."

// ErrProductNotFound is returned when a product lookup matches no record
var ErrProductNotFound = errors.New("product not found")

// APIError is a structured failure for any non-2xx backend response
type APIError struct {
	StatusCode  int
	Detail      string
	FieldErrors map[string][]string
}

// Error implements error
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsValidation reports whether the failure carries per-field messages
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsForbidden reports an authorization failure
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsNotFound reports a missing resource
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerFault reports a backend fault
func (e *APIError) IsServerFault() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// Message returns the text suitable for a form-level banner: a specific
// denial for 403, the backend detail when present, and the generic fault
// message otherwise.
func (e *APIError) Message() string {
	if e.IsForbidden() {
		return DeniedMessage
	}
	if e.Detail != "" {
		return e.Detail
	}
	return GenericFaultMessage
}

// Field returns the first message attached to the given field, if any
func (e *APIError) Field(name string) (string, bool) {
	msgs, ok := e.FieldErrors[name]
	if !ok || len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// ErrorMessage returns the user-facing text for any gateway failure, falling
// back to the raw error for transport problems
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// parseAPIError builds an APIError from the response body. DRF returns 400
// bodies as {"field": ["msg", ...]} and faults as {"error": "..."} or
// {"detail": "..."}.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	for key, value := range payload {
		switch key {
		case "error", "detail":
			if s, ok := value.(string); ok {
				apiErr.Detail = s
			}
		default:
			switch v := value.(type) {
			case string:
				addFieldError(apiErr, key, v)
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						addFieldError(apiErr, key, s)
					}
				}
			}
		}
	}
	return apiErr
}

func addFieldError(e *APIError, field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string][]string)
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}
