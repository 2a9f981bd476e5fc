// Package status exports errors produced by the source package.
package status

import (
	"github.com/oneconcern/projar/pkg/errors"
)

var (
	// ErrSourceFetchFailed indicates an archive that could not be fetched
	ErrSourceFetchFailed = errors.New("source fetch failed")

	// ErrUnsupportedScheme indicates a source URI with a scheme no fetcher knows about
	ErrUnsupportedScheme = errors.New("unsupported source scheme")

	// ErrSourceTooLarge indicates a source larger than the configured limit
	ErrSourceTooLarge = errors.New("source too large")
)
