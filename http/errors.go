package http

import "fmt"

// HTTPError indicates a non-2xx response. The body is retained so callers can
// inspect error payloads without re-issuing the request.
type HTTPError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Body is the response body.
	Body []byte
}

// Error returns a string representation of the HTTP error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}
