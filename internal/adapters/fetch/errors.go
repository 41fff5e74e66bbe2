package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for fetch errors.
var (
	ErrTransport = errors.New("transport failure")
	ErrEmptyName = errors.New("empty resource name")
	ErrTooLarge  = errors.New("response body too large")
)

// StatusError reports a non-success response for a resource.
type StatusError struct {
	Resource   string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d %s", e.Resource, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
