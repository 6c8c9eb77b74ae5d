package iterator

// State is the totally ordered lifecycle of every async iterator. Values are
// monotonically non-decreasing until a terminal state is reached. Distinct
// bit values are kept (rather than a plain 0..5 enum) so a consumer can test
// state against an arbitrary threshold (e.g. `state >= StateClosing`) the way
// the originating design exposes `closed`/`done` as derived booleans.
type State int32

const (
	// StateInit is the state every iterator starts in, before its first
	// `_begin`/construction-time setup completes.
	StateInit State = 1
	// StateOpen is the steady running state: reads may return values.
	StateOpen State = 2
	// StateClosing means a graceful close has been requested but the
	// iterator may still be draining buffered items or an in-flight read.
	StateClosing State = 4
	// StateClosed means the graceful shutdown sequence (flush) has run;
	// an `_end` transition to Ended is scheduled or imminent.
	StateClosed State = 8
	// StateEnded is a terminal state reached via graceful completion.
	StateEnded State = 16
	// StateDestroyed is a terminal state reached via Destroy, bypassing
	// Ended. Ended and Destroyed are mutually exclusive.
	StateDestroyed State = 32
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateEnded:
		return "ended"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Closed reports whether s is StateClosing or later.
func (s State) Closed() bool { return s >= StateClosing }

// Ended reports whether s is exactly StateEnded.
func (s State) Ended() bool { return s == StateEnded }

// Destroyed reports whether s is exactly StateDestroyed.
func (s State) Destroyed() bool { return s == StateDestroyed }

// Done reports whether s is StateEnded or StateDestroyed: no further reads,
// data, readable, or end events will occur.
func (s State) Done() bool { return s >= StateEnded }
