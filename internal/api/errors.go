package api

import (
	"errors"
	"fmt"
)

// ApiError represents a non-2xx response from the clocko:do API.
// Message holds error.message from the response body when the server sent one.
type ApiError struct {
	Status     int
	StatusText string
	Body       string
	Message    string
}

func (e *ApiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("API error %d %s: %s", e.Status, e.StatusText, e.Body)
}

// AuthError represents a 401 Unauthorized response, i.e. bad credentials.
type AuthError struct {
	ApiError
}

func (e *AuthError) Unwrap() error {
	return &e.ApiError
}

// DecodeError reports a malformed or unrecognized server payload.
type DecodeError struct {
	Entity string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %s: field %q: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Entity, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errMissing is wrapped by DecodeError when a required field is absent.
var errMissing = errors.New("required field missing")

// UnknownEntryTypeError is returned (wrapped in a DecodeError) for an entry
// whose type discriminator is not 1, 2 or 3.
type UnknownEntryTypeError struct {
	Type int
}

func (e *UnknownEntryTypeError) Error() string {
	return fmt.Sprintf("unknown entry type %d", e.Type)
}

// ConflictError reports a violated clock precondition, such as starting a
// clock while another one runs.
type ConflictError struct {
	Op     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ConstructionError reports an entity that cannot be built client-side.
type ConstructionError struct {
	Entity string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %s: %s", e.Entity, e.Reason)
}

// PermissionError is returned when reading a field the server only sends to
// privileged users.
type PermissionError struct {
	Entity string
	Field  string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("you seem to lack privileges to view %s on %s", e.Field, e.Entity)
}

// ErrNotImplemented is returned for entry kinds this client can read but not create.
var ErrNotImplemented = errors.New("not implemented")

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ErrorMessage returns the server's error message when err carries one.
func ErrorMessage(err error) string {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Body != "" {
		return apiErr.Body
	}
	return fmt.Sprintf("%d %s", apiErr.Status, apiErr.StatusText)
}
