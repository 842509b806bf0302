package remote

import (
	"fmt"
	"net/http"
)

// NetworkError reports that the backend could not be used at all: the
// request failed in transport, timed out, hit a 5xx, or came back with a body
// that could not be decoded. Callers may fall back to cached data.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError reports a 4xx answer. The backend was reached and refused the
// request, so there is nothing to fall back to.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}
