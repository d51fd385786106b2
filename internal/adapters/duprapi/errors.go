package duprapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Amund211/dupr/domain"
)

// errorFromResponse is the single place where non-2xx responses are mapped to the error taxonomy
func errorFromResponse(statusCode int, statusText string, header http.Header, body []byte, oauth bool) error {
	fields := errorFields(body)

	message := fields["message"]
	if message == "" && oauth {
		message = fields["error_description"]
	}
	if message == "" {
		message = statusText
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return domain.NewRateLimitError(message, body, parseRetryAfter(header))
	case oauth:
		return domain.NewOAuthError(message, fields["error"], statusCode, body)
	case statusCode == http.StatusUnauthorized:
		return domain.NewAuthenticationError(message, body)
	case statusCode == http.StatusNotFound:
		return domain.NewNotFoundError(message, body)
	case statusCode == http.StatusBadRequest:
		return domain.NewValidationError(message, body)
	default:
		return domain.NewAPIError(message, statusCode, body)
	}
}

// errorFields extracts the top level string fields of a JSON object body.
// Bodies that are not JSON objects yield no fields.
func errorFields(body []byte) map[string]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return map[string]string{}
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			continue
		}
		fields[key] = str
	}
	return fields
}

// parseRetryAfter reads a Retry-After header given in seconds
func parseRetryAfter(header http.Header) *time.Duration {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return nil
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return nil
	}

	retryAfter := time.Duration(seconds) * time.Second
	return &retryAfter
}
