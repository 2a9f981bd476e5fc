package source

import (
	"fmt"

	"github.com/oneconcern/projar/pkg/source/status"
)

// FetchError reports a failure to fetch a source.
//
// It matches status.ErrSourceFetchFailed with errors.Is.
type FetchError struct {
	URI string
	// Status is the status code reported by the remote end, 0 when there is none
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%v: %s: %v", status.ErrSourceFetchFailed, e.URI, e.Err)
	}
	return fmt.Sprintf("%v: %s: status %d: %v", status.ErrSourceFetchFailed, e.URI, e.Status, e.Err)
}

// Unwrap to both the sentinel and the cause
func (e *FetchError) Unwrap() []error {
	return []error{status.ErrSourceFetchFailed, e.Err}
}
