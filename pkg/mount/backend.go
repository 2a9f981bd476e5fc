package mount

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/oneconcern/projar/pkg/vfs"
)

// Backend registers the persistent stores backing project filesystems.
//
// Registering a name twice fails with status.ErrAlreadyRegistered.
// Unregistering an unknown name is a no-op.
type Backend interface {
	Register(context.Context, string) (vfs.FS, error)
	Unregister(context.Context, string) error
	Lookup(string) (vfs.FS, bool)
}

const storePrefix = "project-"

// StoreName derives the name of the backing store of a project.
//
// The name is stable across sessions, so that a project mounted again resolves
// to the same data. Letters, digits, '.' and '-' are kept, any other byte is
// escaped as '_' followed by its hex value: distinct projects never share a store.
func StoreName(projectID string) string {
	var b strings.Builder
	b.Grow(len(storePrefix) + len(projectID))
	b.WriteString(storePrefix)
	for i := 0; i < len(projectID); i++ {
		c := projectID[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
			b.WriteString(hex.EncodeToString([]byte{c}))
		}
	}
	return b.String()
}
