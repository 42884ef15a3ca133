package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Constants for TUI behavior and internal logic.
const (
	// maxActivityLogLines bounds the in-memory activity log.
	maxActivityLogLines = 200
	// minHeightForMainLogView defines the minimum terminal height (in lines)
	// required to show the activity log under the zone grid. Shorter
	// terminals (the wrist unit's 800x480 panel runs 100x30) still get the
	// log via the overlay.
	minHeightForMainLogView = 24
	// statusMessageDuration is how long transient status bar messages stay.
	statusMessageDuration = 3 * time.Second
	// logPanelRows is the height of the inline activity log panel.
	logPanelRows = 8
	// minGridRows is the floor for the zone grid so buttons stay tappable
	// even on absurdly short terminals.
	minGridRows = 6
)

// Icons for supervisor state. The wrist unit's console font covers these.
const (
	IconPlay      = "▶"
	IconStop      = "⏹"
	IconHourglass = "⏳"
	IconCross     = "❌"
	IconCheck     = "✔"
)

// Styles for the TUI, defined using the lipgloss library.
var (
	// appStyle defines the overall margin for the application view.
	appStyle = lipgloss.NewStyle().Margin(0, 0)

	// headerStyle is for the title bar at the top of the surface.
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	// zoneStyle is the base style for zone buttons.
	zoneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Align(lipgloss.Center, lipgloss.Center)

	// zoneActiveStyle highlights the zone whose app is running.
	zoneActiveStyle = zoneStyle.
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#006600", Dark: "#8AE234"}).
			Bold(true)

	// zoneTransitionalStyle marks the zone whose app is starting or
	// stopping; rendered with the spinner so it never looks settled.
	zoneTransitionalStyle = zoneStyle.
				BorderForeground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"})

	// zoneDisabledStyle grays out buttons that are invalid while another
	// app holds the capture device.
	zoneDisabledStyle = zoneStyle.
				Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#606060"}).
				BorderForeground(lipgloss.AdaptiveColor{Light: "#C0C0C0", Dark: "#404040"})

	// zoneQuitStyle marks the shutdown bar.
	zoneQuitStyle = zoneStyle.
			BorderForeground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"})

	// statusStyle is a general-purpose style for status lines.
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})

	// errorStyle is for error messages, high contrast in both modes.
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"})

	// successStyle is for confirmations in the status bar.
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006600", Dark: "#8AE234"})

	// Per-level styles for activity log lines.
	logInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#E0E0E0"})
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"}).Bold(true)
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"}).Bold(true)
	logDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"}).Italic(true)

	// logPanelStyle frames the activity log under the zone grid.
	logPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	// logPanelTitleStyle is the activity log caption.
	logPanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})

	// helpStyle renders the key hints in the footer.
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})
)
