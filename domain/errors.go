package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAPI             = errors.New("dupr api error")
	ErrRateLimited     = errors.New("rate limited")
	ErrUnauthenticated = errors.New("authentication failed")
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrOAuth           = errors.New("oauth error")

	// Transport level failures. No status code is attached to these.
	ErrTimeout          = errors.New("request timed out")
	ErrRequestThrottled = errors.New("request throttled locally")

	// Local precondition failures. No network call was made.
	ErrPrecondition = errors.New("precondition failed")
	ErrNoClient     = fmt.Errorf("%w: not associated with a client", ErrPrecondition)
	ErrInvalidMatch = fmt.Errorf("%w: invalid match", ErrPrecondition)
)

// APIError is the base of every error produced from a non-2xx response.
//
// StatusCode is 0 when the error did not come from an HTTP response.
type APIError struct {
	Message    string
	StatusCode int
	Body       []byte

	kind error
}

func NewAPIError(message string, statusCode int, body []byte) *APIError {
	return &APIError{Message: message, StatusCode: statusCode, Body: body}
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("dupr: %s", e.Message)
	}
	return fmt.Sprintf("dupr: %s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() []error {
	if e.kind == nil {
		return []error{ErrAPI}
	}
	return []error{ErrAPI, e.kind}
}

func (e *APIError) base() *APIError {
	return e
}

type RateLimitError struct {
	APIError
	// RetryAfter is nil when the Retry-After header was missing or not a number of seconds
	RetryAfter *time.Duration
}

func NewRateLimitError(message string, body []byte, retryAfter *time.Duration) *RateLimitError {
	return &RateLimitError{
		APIError:   APIError{Message: message, StatusCode: 429, Body: body, kind: ErrRateLimited},
		RetryAfter: retryAfter,
	}
}

type AuthenticationError struct {
	APIError
}

func NewAuthenticationError(message string, body []byte) *AuthenticationError {
	return &AuthenticationError{
		APIError: APIError{Message: message, StatusCode: 401, Body: body, kind: ErrUnauthenticated},
	}
}

type NotFoundError struct {
	APIError
}

func NewNotFoundError(message string, body []byte) *NotFoundError {
	return &NotFoundError{
		APIError: APIError{Message: message, StatusCode: 404, Body: body, kind: ErrNotFound},
	}
}

type ValidationError struct {
	APIError
}

func NewValidationError(message string, body []byte) *ValidationError {
	return &ValidationError{
		APIError: APIError{Message: message, StatusCode: 400, Body: body, kind: ErrInvalidRequest},
	}
}

// OAuthError reports a failure in one of the OAuth flows.
//
// Code is the provider specific error code, e.g. "invalid_grant", or empty.
type OAuthError struct {
	APIError
	Code string
}

func NewOAuthError(message string, code string, statusCode int, body []byte) *OAuthError {
	return &OAuthError{
		APIError: APIError{Message: message, StatusCode: statusCode, Body: body, kind: ErrOAuth},
		Code:     code,
	}
}

func (e *OAuthError) Error() string {
	if e.Code == "" {
		return e.APIError.Error()
	}
	return fmt.Sprintf("%s [%s]", e.APIError.Error(), e.Code)
}

// AsAPIError returns the base error of any kind in the taxonomy found in err's chain
func AsAPIError(err error) (*APIError, bool) {
	var target interface{ base() *APIError }
	if !errors.As(err, &target) {
		return nil, false
	}
	return target.base(), true
}
