package tui

import (
	"touchdeck/internal/supervisor"
	"touchdeck/internal/touch"
	"touchdeck/pkg/logging"
)

// -------------------- Input and supervisor message types --------------------

// touchEventMsg carries one decoded touch event from the input source into
// the bubbletea loop, which is the single control thread.
type touchEventMsg struct {
	event touch.Event
}

// touchSourceClosedMsg signals the decoded-event stream ended.
type touchSourceClosedMsg struct{}

// supervisorUpdateMsg carries a fresh supervisor snapshot after a state
// change.
type supervisorUpdateMsg struct {
	snapshot supervisor.Snapshot
}

// logEntryMsg carries one structured log entry for the activity log.
type logEntryMsg struct {
	entry logging.LogEntry
}

// logChannelClosedMsg signals logging shut down (application exit path).
type logChannelClosedMsg struct{}

// clearStatusBarMsg resets a transient status bar message.
type clearStatusBarMsg struct{}

// shutdownCompleteMsg signals the supervisor finished draining and the
// program can quit.
type shutdownCompleteMsg struct {
	err error
}
