package contentful

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoManagementToken is returned by write calls on a read-only client
var ErrNoManagementToken = errors.New("contentful management token not configured")

// APIError is a non-2xx response from Contentful
type APIError struct {
	Status  int
	ID      string
	Message string
}

func (e *APIError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("contentful api error (%d %s): %s", e.Status, e.ID, e.Message)
	}
	return fmt.Sprintf("contentful api error (%d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a Contentful 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
