package supervisor

import (
	"errors"
	"fmt"
	"time"

	"touchdeck/internal/action"
)

// errUnknownApp reports a launch for an app id missing from the configured
// set. Validation makes this unreachable from real layouts.
var errUnknownApp = errors.New("unknown app id")

// State is the supervisor's lifecycle position. At most one managed process
// exists outside Idle; that invariant is what keeps the shared capture
// device single-owner.
type State int

const (
	// Idle means no active process.
	Idle State = iota
	// Starting means spawn was issued and liveness is not yet confirmed.
	Starting
	// Running means the process is confirmed alive.
	Running
	// Stopping means graceful termination was requested and the grace timer
	// is armed.
	Stopping
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// ProcessHandle identifies one spawned external process. It is owned
// exclusively by the supervisor; launcher events carry it back so stale
// notifications from an already-replaced process can be discarded.
type ProcessHandle struct {
	ID        string // uuid, unique per spawn
	App       string // managed app id
	PID       int
	StartedAt time.Time
}

// ExitInfo records how the last process ended, for diagnostics and the
// renderer's error indicator.
type ExitInfo struct {
	App      string
	Code     int
	Err      error
	Crashed  bool // exited uncleanly without a stop request
	ExitedAt time.Time
}

// Snapshot is a read-only copy of supervisor state handed to renderers.
type Snapshot struct {
	State     State
	ActiveApp string // empty when Idle
	PID       int
	StartedAt time.Time
	Pending   *action.Action
	LastExit  *ExitInfo
	LastErr   error
}

// UpdateFunc receives a snapshot after every state change. It is invoked
// on the supervisor's serialized path and must not call back into the
// supervisor.
type UpdateFunc func(Snapshot)

// SpawnError reports a failed process launch (missing executable,
// permission denied). The supervisor stays Idle and the action can simply
// be retried.
type SpawnError struct {
	App string
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.App, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// CrashError reports an unexpected process exit. The supervisor has already
// returned to Idle; no automatic retry is attempted.
type CrashError struct {
	App  string
	Code int
	Err  error
}

func (e *CrashError) Error() string {
	return fmt.Sprintf("%s exited unexpectedly (code %d)", e.App, e.Code)
}

func (e *CrashError) Unwrap() error { return e.Err }
