package mount

import (
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/dlogger"
)

// DefaultMountRoot is the logical location of mounted projects
const DefaultMountRoot = "/projects"

// Option for a mount Manager
type Option func(*managerOptions)

type managerOptions struct {
	registry  *Registry
	l         *zap.Logger
	mountRoot string
}

func defaultManagerOptions() managerOptions {
	return managerOptions{
		l:         zap.NewNop(),
		mountRoot: DefaultMountRoot,
	}
}

// WithRegistry injects the registry tracking mounts.
// The registry must not be shared with another Manager.
func WithRegistry(r *Registry) Option {
	return func(o *managerOptions) {
		o.registry = r
	}
}

// Logger injects a logger
func Logger(l *zap.Logger) Option {
	return func(o *managerOptions) {
		o.l = dlogger.Or(l)
	}
}

// MountRoot sets the logical location under which projects are mounted
func MountRoot(root string) Option {
	return func(o *managerOptions) {
		o.mountRoot = root
	}
}
