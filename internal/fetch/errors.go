package fetch

import (
	"errors"
	"fmt"
)

// StatusError is a non-2xx provider response. Adapters use the code to
// distinguish auth failures (permanent for the process lifetime) from
// transient server trouble.
type StatusError struct {
	Code int
	Host string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: status %d from %s", e.Code, e.Host)
}

// IsAuthError reports whether err is a 401/403 provider response,
// i.e. a configuration problem rather than a transient outage.
func IsAuthError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == 401 || se.Code == 403
	}
	return false
}
