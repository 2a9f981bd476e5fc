package mount

import (
	"go.uber.org/atomic"

	"github.com/oneconcern/projar/pkg/vfs"
)

// Handle to a mounted project.
//
// A Handle is shared by all callers mounting the same project. It becomes
// inactive once the project is unmounted: a new mount yields a new Handle.
type Handle struct {
	ProjectID string
	RootPath  string
	FS        vfs.FS

	store  string
	active *atomic.Bool
}

func newHandle(projectID, rootPath, store string, fsys vfs.FS) *Handle {
	return &Handle{
		ProjectID: projectID,
		RootPath:  rootPath,
		FS:        fsys,
		store:     store,
		active:    atomic.NewBool(true),
	}
}

// Active tells if the project is still mounted through this handle
func (h *Handle) Active() bool {
	return h != nil && h.active.Load()
}

// StoreName is the name of the backing store
func (h *Handle) StoreName() string {
	return h.store
}

func (h *Handle) deactivate() {
	h.active.Store(false)
}
