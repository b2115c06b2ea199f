// Package watch keeps the artifact in sync with the filesystem: change events are
// coalesced by a debounce timer and each quiet period triggers one regeneration.
package watch

// Op is the kind of a change event.
type Op int

const (
	OpAdd Op = iota
	OpChange
	OpRemove
	OpError
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpChange:
		return "change"
	case OpRemove:
		return "unlink"
	case OpError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single filesystem change. Path is relative to the watched root and
// slash-separated; Err is set only for OpError.
type Event struct {
	Op   Op
	Path string
	Err  error
}

// Source produces an unbounded stream of change events. The channel is closed
// once the source is closed; a closed source cannot be restarted.
type Source interface {
	Events() <-chan Event
	Close() error
}
