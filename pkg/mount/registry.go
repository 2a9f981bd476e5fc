package mount

import (
	"sort"
	"sync"
)

// Registry maps project identifiers to their mount.
//
// A Registry is owned by a single Manager, which is its only writer.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry tracks the mount of a single project.
//
// transition serializes mount and unmount operations on the project, while mu
// guards the fields and is never held across backend calls.
type entry struct {
	transition sync.Mutex

	mu      sync.Mutex
	state   State
	handle  *Handle
	holders int
}

// NewRegistry builds an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

func (r *Registry) entry(projectID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[projectID]
	if !ok {
		e = &entry{}
		r.entries[projectID] = e
	}
	return e
}

func (r *Registry) lookup(projectID string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[projectID]
	return e, ok
}

// State of a project. Unknown projects are Unmounted.
func (r *Registry) State(projectID string) State {
	e, ok := r.lookup(projectID)
	if !ok {
		return Unmounted
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Holders is the number of callers holding the mount of a project
func (r *Registry) Holders(projectID string) int {
	e, ok := r.lookup(projectID)
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.holders
}

// Mounted lists the identifiers of mounted projects, sorted
func (r *Registry) Mounted() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.entries))
	entries := make([]*entry, 0, len(r.entries))
	for id, e := range r.entries {
		ids = append(ids, id)
		entries = append(entries, e)
	}
	r.mu.Unlock()

	mounted := make([]string, 0, len(ids))
	for i, e := range entries {
		e.mu.Lock()
		if e.state == Mounted {
			mounted = append(mounted, ids[i])
		}
		e.mu.Unlock()
	}
	sort.Strings(mounted)
	return mounted
}
