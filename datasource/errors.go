package datasource

import (
	"errors"
	"fmt"
)

// StatusError is returned when the provider answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned non-success status: %d", e.StatusCode)
}

// StatusCode extracts the provider status code from err, if any
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}
