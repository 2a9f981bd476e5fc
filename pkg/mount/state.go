package mount

import "fmt"

// State of a project mount
type State uint8

const (
	// Unmounted projects have no registered backing store
	Unmounted State = iota
	// Mounting projects are being registered with the backend
	Mounting
	// Mounted projects are usable through their Handle
	Mounted
)

func (s State) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Mounted:
		return "mounted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}
