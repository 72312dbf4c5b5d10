package chatapi

import (
	"errors"
	"fmt"
)

// ErrMissingResponse is returned when a /chat body decodes but carries no
// response field.
var ErrMissingResponse = errors.New("response field missing from chat reply")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %d", e.Endpoint, e.Code)
	}

	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Code, e.Body)
}
