package archive

import (
	"github.com/oneconcern/projar/pkg/archive/status"
	"github.com/oneconcern/projar/pkg/errors"
)

func errorsIsTooLarge(err error) bool {
	return errors.Is(err, status.ErrArchiveTooLarge)
}
