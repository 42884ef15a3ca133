package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"touchdeck/internal/action"
	"touchdeck/internal/hittest"
	"touchdeck/internal/touch"
	"touchdeck/pkg/logging"
)

// setStatusMessage updates the status bar and schedules clearing it.
func (m *Model) setStatusMessage(message string, msgType MessageType, clearAfter time.Duration) tea.Cmd {
	m.statusBarMessage = message
	m.statusBarMessageType = msgType

	if m.statusBarClearCancel != nil {
		close(m.statusBarClearCancel)
	}
	m.statusBarClearCancel = make(chan struct{})
	captured := m.statusBarClearCancel

	return tea.Tick(clearAfter, func(time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return clearStatusBarMsg{}
		}
	})
}

// Update is the heart of the bubbletea program, handling all incoming
// messages. It is the single control thread: touch events, keyboard
// fallbacks, and supervisor updates all pass through here in order.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recalculateLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case supervisorUpdateMsg:
		m.snapshot = msg.snapshot
		cmds = append(cmds, waitForSupervisorUpdate(m.updateCh))
		return m, tea.Batch(cmds...)

	case logEntryMsg:
		m.appendLogEntry(msg.entry)
		cmds = append(cmds, waitForLogEntry(m.logCh))
		return m, tea.Batch(cmds...)

	case logChannelClosedMsg:
		return m, nil

	case touchEventMsg:
		if m.touchSrc != nil {
			cmds = append(cmds, waitForTouchEvent(m.touchSrc))
		}
		if m.mode == ModeDashboard && msg.event.Phase == touch.Down {
			var cmd tea.Cmd
			m, cmd = m.dispatchTap(msg.event.X, msg.event.Y)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case touchSourceClosedMsg:
		logging.Warn("tui", "Touch event source closed; keyboard/mouse input only")
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeDashboard && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if px, py, ok := m.terminalToDisplay(msg.X, msg.Y); ok {
				return m.dispatchTap(px, py)
			}
		}
		return m, nil

	case clearStatusBarMsg:
		m.statusBarMessage = ""
		return m, nil

	case shutdownCompleteMsg:
		if msg.err != nil {
			logging.Error("tui", msg.err, "Shutdown did not complete cleanly")
		}
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes keyboard fallbacks, per mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeQuitting {
		return m, nil
	}

	if m.mode == ModeLogOverlay {
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.Logs):
			m.mode = ModeDashboard
			return m, nil
		case key.Matches(msg, m.keys.CopyLogs):
			if err := clipboard.WriteAll(strings.Join(m.activityLog, "\n")); err != nil {
				return m, m.setStatusMessage("Copy logs failed", StatusBarError, statusMessageDuration)
			}
			return m, m.setStatusMessage("Logs copied to clipboard", StatusBarSuccess, statusMessageDuration)
		case key.Matches(msg, m.keys.Quit):
			return m.beginShutdown()
		default:
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.beginShutdown()

	case key.Matches(msg, m.keys.Stop):
		if err := m.sup.Apply(action.Action{Kind: action.Stop}); err != nil {
			return m, m.setStatusMessage(err.Error(), StatusBarError, statusMessageDuration)
		}
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.mode = ModeLogOverlay
		m.recalculateLayout()
		return m, nil

	case key.Matches(msg, m.keys.Zones):
		// Digits tap the Nth zone's center, for SSH debugging without a
		// panel attached.
		idx := int(msg.String()[0] - '1')
		zones := m.engine.Zones()
		if idx >= 0 && idx < len(zones) {
			r := zones[idx].Rect
			return m.dispatchTap(r.X+r.W/2, r.Y+r.H/2)
		}
		return m, nil
	}

	return m, nil
}

// dispatchTap runs one display-space tap through the full pipeline:
// hit-test, action resolution, supervisor application.
func (m Model) dispatchTap(px, py int) (Model, tea.Cmd) {
	zone, ok := m.engine.Resolve(hittest.Point{X: px, Y: py})
	if !ok {
		logging.Debug("tui", "Tap at (%d,%d) outside all zones", px, py)
		return m, nil
	}

	resolved := m.resolver.Resolve(zone, m.sup.Active())
	logging.Debug("tui", "Tap at (%d,%d) in zone %s -> %s", px, py, zone.ID, resolved)

	switch resolved.Kind {
	case action.Quit:
		return m.beginShutdown()
	case action.NoOp:
		if m.resolver.Disabled(zone, m.sup.Active()) {
			return m, m.setStatusMessage(
				fmt.Sprintf("%s is unavailable while %s holds the camera", zone.Label, m.sup.Active().App),
				StatusBarInfo, statusMessageDuration)
		}
		return m, nil
	default:
		if err := m.sup.Apply(resolved); err != nil {
			return m, m.setStatusMessage(err.Error(), StatusBarError, statusMessageDuration)
		}
		return m, nil
	}
}

// beginShutdown switches to the quitting screen and drains the supervisor.
func (m Model) beginShutdown() (Model, tea.Cmd) {
	if m.mode == ModeQuitting {
		return m, nil
	}
	logging.Info("tui", "Shutting down")
	m.mode = ModeQuitting
	return m, shutdownCmd(m.sup)
}

// terminalToDisplay maps a terminal cell inside the zone grid back to
// display pixel space. The grid is proportionally scaled, so this inverse
// is approximate near borders; the real input path arrives pixel-exact
// from the decoder.
func (m Model) terminalToDisplay(tx, ty int) (int, int, bool) {
	if !m.ready || m.width == 0 || m.gridHeight == 0 {
		return 0, 0, false
	}
	if ty < m.gridTop || ty >= m.gridTop+m.gridHeight {
		return 0, 0, false
	}
	px := tx * m.cfg.Display.Width / m.width
	py := (ty - m.gridTop) * m.cfg.Display.Height / m.gridHeight
	return px, py, true
}

// recalculateLayout derives the grid's terminal geometry from the current
// window size.
func (m *Model) recalculateLayout() {
	headerRows := 1
	statusRows := 1
	helpRows := 1
	logRows := 0
	if m.height >= minHeightForMainLogView {
		logRows = logPanelRows
	}

	m.gridTop = headerRows
	m.gridHeight = m.height - headerRows - statusRows - helpRows - logRows
	if m.gridHeight < minGridRows {
		m.gridHeight = minGridRows
	}

	m.logViewport.Width = m.width - logPanelStyle.GetHorizontalFrameSize()
	if m.mode == ModeLogOverlay {
		m.logViewport.Height = m.height - 4
	} else {
		m.logViewport.Height = logRows - logPanelStyle.GetVerticalFrameSize() - 1
	}
	if m.logViewport.Height < 0 {
		m.logViewport.Height = 0
	}
	m.refreshLogViewport()
}

// appendLogEntry formats and stores one activity log line, trimming to the
// retention bound.
func (m *Model) appendLogEntry(entry logging.LogEntry) {
	line := fmt.Sprintf("%s [%s] %s: %s",
		entry.Timestamp.Format("15:04:05"), entry.Level, entry.Subsystem, entry.Message)
	if entry.Err != nil {
		line += fmt.Sprintf(" (%v)", entry.Err)
	}

	var style = logInfoStyle
	switch entry.Level {
	case logging.LevelDebug:
		style = logDebugStyle
	case logging.LevelWarn:
		style = logWarnStyle
	case logging.LevelError:
		style = logErrorStyle
	}

	m.activityLog = append(m.activityLog, style.Render(line))
	if len(m.activityLog) > maxActivityLogLines {
		m.activityLog = m.activityLog[len(m.activityLog)-maxActivityLogLines:]
	}
	m.refreshLogViewport()
}

// refreshLogViewport pushes the activity log into the viewport and keeps
// it pinned to the newest line.
func (m *Model) refreshLogViewport() {
	m.logViewport.SetContent(strings.Join(m.activityLog, "\n"))
	m.logViewport.GotoBottom()
}
