package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"touchdeck/internal/supervisor"
	"touchdeck/internal/touch"
	"touchdeck/pkg/logging"
)

// shutdownGraceBudget bounds how long quitting waits for the active app
// before the supervisor falls back to SIGKILL.
const shutdownGraceBudget = 5 * time.Second

// waitForTouchEvent returns a tea.Cmd that blocks on the next decoded touch
// event. The Update handler re-issues it after each delivery, so exactly
// one reader exists at a time.
func waitForTouchEvent(src touch.Source) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-src.Events()
		if !ok {
			return touchSourceClosedMsg{}
		}
		return touchEventMsg{event: ev}
	}
}

// waitForSupervisorUpdate returns a tea.Cmd that blocks on the next
// supervisor snapshot.
func waitForSupervisorUpdate(ch <-chan supervisor.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return supervisorUpdateMsg{snapshot: snap}
	}
}

// waitForLogEntry returns a tea.Cmd that blocks on the next activity log
// entry.
func waitForLogEntry(ch <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return logChannelClosedMsg{}
		}
		return logEntryMsg{entry: entry}
	}
}

// shutdownCmd drains the supervisor and reports completion.
func shutdownCmd(sup supervisorAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGraceBudget)
		defer cancel()
		return shutdownCompleteMsg{err: sup.Shutdown(ctx)}
	}
}
