package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"touchdeck/internal/config"
	"touchdeck/internal/supervisor"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing touchdeck..."
	}

	switch m.mode {
	case ModeQuitting:
		return m.quittingView()
	case ModeLogOverlay:
		return m.logOverlayView()
	default:
		return m.dashboardView()
	}
}

func (m Model) dashboardView() string {
	sections := []string{
		m.headerView(),
		m.zoneGridView(),
	}
	if m.height >= minHeightForMainLogView {
		sections = append(sections, m.logPanelView())
	}
	sections = append(sections, m.statusBarView(), helpStyle.Render(m.help.View(m.keys)))

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) headerView() string {
	title := fmt.Sprintf("touchdeck · %s", m.snapshot.State)
	if m.snapshot.ActiveApp != "" {
		title = fmt.Sprintf("touchdeck · %s %s", m.snapshot.State, m.snapshot.ActiveApp)
	}
	return headerStyle.Width(m.width).Render(title)
}

// zoneGridView renders the configured zone layout scaled proportionally
// from display pixel space into terminal cells. Zones sharing a Y
// coordinate form one terminal row.
func (m Model) zoneGridView() string {
	zones := m.engine.Zones()
	byY := make(map[int][]config.Zone)
	var ys []int
	for _, z := range zones {
		if _, seen := byY[z.Rect.Y]; !seen {
			ys = append(ys, z.Rect.Y)
		}
		byY[z.Rect.Y] = append(byY[z.Rect.Y], z)
	}
	sort.Ints(ys)

	var rows []string
	for _, y := range ys {
		row := byY[y]
		sort.Slice(row, func(i, j int) bool { return row[i].Rect.X < row[j].Rect.X })

		rowHeight := m.gridHeight * row[0].Rect.H / m.cfg.Display.Height
		if rowHeight < 3 {
			rowHeight = 3
		}

		var cells []string
		for _, z := range row {
			cellWidth := m.width * z.Rect.W / m.cfg.Display.Width
			if cellWidth < 8 {
				cellWidth = 8
			}
			cells = append(cells, m.zoneCellView(z, cellWidth, rowHeight))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// zoneCellView renders a single zone button sized to the given terminal
// cell box, border included.
func (m Model) zoneCellView(z config.Zone, cellWidth, cellHeight int) string {
	style, status := m.zoneAppearance(z)

	innerWidth := cellWidth - style.GetHorizontalFrameSize()
	if innerWidth < 1 {
		innerWidth = 1
	}
	innerHeight := cellHeight - style.GetVerticalFrameSize()
	if innerHeight < 1 {
		innerHeight = 1
	}

	label := runewidth.Truncate(z.Label, innerWidth, "…")
	content := label
	if status != "" && innerHeight > 1 {
		content = label + "\n" + runewidth.Truncate(status, innerWidth, "…")
	}

	return style.Width(innerWidth).Height(innerHeight).Render(content)
}

// zoneAppearance picks the style and status caption for a zone from the
// current supervisor snapshot.
func (m Model) zoneAppearance(z config.Zone) (lipgloss.Style, string) {
	if z.Quit {
		return zoneQuitStyle, ""
	}

	active := m.snapshot.ActiveApp == z.App
	switch {
	case active && m.snapshot.State == supervisor.Running:
		return zoneActiveStyle, IconPlay + " running"
	case active && m.snapshot.State == supervisor.Starting:
		return zoneTransitionalStyle, m.spinner.View() + " starting"
	case active && m.snapshot.State == supervisor.Stopping:
		return zoneTransitionalStyle, m.spinner.View() + " stopping"
	case m.resolver.Disabled(z, m.sup.Active()):
		return zoneDisabledStyle, "camera in use"
	}

	if m.snapshot.LastExit != nil && m.snapshot.LastExit.Crashed && m.snapshot.LastExit.App == z.App {
		return zoneStyle, IconCross + " crashed"
	}
	return zoneStyle, ""
}

func (m Model) statusBarView() string {
	if m.statusBarMessage != "" {
		switch m.statusBarMessageType {
		case StatusBarError:
			return errorStyle.Render(m.statusBarMessage)
		case StatusBarSuccess:
			return successStyle.Render(m.statusBarMessage)
		default:
			return statusStyle.Render(m.statusBarMessage)
		}
	}

	switch m.snapshot.State {
	case supervisor.Running:
		return statusStyle.Render(fmt.Sprintf("%s %s (pid %d)", IconPlay, m.snapshot.ActiveApp, m.snapshot.PID))
	case supervisor.Starting:
		return statusStyle.Render(fmt.Sprintf("%s starting %s", IconHourglass, m.snapshot.ActiveApp))
	case supervisor.Stopping:
		if m.snapshot.Pending != nil {
			return statusStyle.Render(fmt.Sprintf("%s stopping %s, then %s", IconHourglass, m.snapshot.ActiveApp, m.snapshot.Pending))
		}
		return statusStyle.Render(fmt.Sprintf("%s stopping %s", IconHourglass, m.snapshot.ActiveApp))
	}

	if m.snapshot.LastExit != nil && m.snapshot.LastExit.Crashed {
		return errorStyle.Render(fmt.Sprintf("%s %s exited unexpectedly (code %d)",
			IconCross, m.snapshot.LastExit.App, m.snapshot.LastExit.Code))
	}
	return statusStyle.Render("Idle · tap a zone to launch")
}

func (m Model) logPanelView() string {
	title := logPanelTitleStyle.Render("Activity")
	return logPanelStyle.Width(m.width - logPanelStyle.GetHorizontalFrameSize()).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.logViewport.View()))
}

func (m Model) logOverlayView() string {
	title := logPanelTitleStyle.Render(fmt.Sprintf("Activity log (%d lines)", len(m.activityLog)))
	footer := helpStyle.Render("↑/↓ scroll · y copy · esc close")
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.logViewport.View(), footer))
}

func (m Model) quittingView() string {
	msg := fmt.Sprintf("%s Shutting down", m.spinner.View())
	if m.snapshot.ActiveApp != "" {
		msg = fmt.Sprintf("%s Stopping %s before exit", m.spinner.View(), m.snapshot.ActiveApp)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, statusStyle.Render(msg))
}
