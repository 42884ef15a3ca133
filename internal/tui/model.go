package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"touchdeck/internal/action"
	"touchdeck/internal/config"
	"touchdeck/internal/hittest"
	"touchdeck/internal/supervisor"
	"touchdeck/internal/touch"
	"touchdeck/pkg/logging"
)

// AppMode defines the overall state or view of the application.
type AppMode int

const (
	// ModeDashboard is the primary view showing the zone grid and log.
	ModeDashboard AppMode = iota
	// ModeLogOverlay is the full-screen log viewer.
	ModeLogOverlay
	// ModeQuitting is shown while the supervisor drains on shutdown.
	ModeQuitting
)

// String makes AppMode satisfy the fmt.Stringer interface.
func (a AppMode) String() string {
	switch a {
	case ModeDashboard:
		return "Dashboard"
	case ModeLogOverlay:
		return "LogOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// MessageType styles transient status bar messages.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
)

// supervisorAPI is the slice of the supervisor the TUI needs; narrowed to
// an interface so update logic is testable with a stub.
type supervisorAPI interface {
	Apply(a action.Action) error
	Active() action.Active
	Snapshot() supervisor.Snapshot
	Shutdown(ctx context.Context) error
}

// Model is the bubbletea model for the control surface.
type Model struct {
	cfg      config.TouchdeckConfig
	engine   *hittest.Engine
	resolver *action.Resolver
	sup      supervisorAPI

	updateCh <-chan supervisor.Snapshot
	logCh    <-chan logging.LogEntry
	touchSrc touch.Source // nil when no decoder is attached (keyboard/mouse only)

	snapshot supervisor.Snapshot

	mode        AppMode
	width       int
	height      int
	ready       bool
	gridTop     int // first terminal row of the zone grid, for mouse mapping
	gridHeight  int // terminal rows the grid occupies

	spinner     spinner.Model
	logViewport viewport.Model
	help        help.Model
	keys        keyMap

	activityLog []string

	statusBarMessage     string
	statusBarMessageType MessageType
	statusBarClearCancel chan struct{}
}

// Options wires the model's collaborators.
type Options struct {
	Config     config.TouchdeckConfig
	Engine     *hittest.Engine
	Resolver   *action.Resolver
	Supervisor *supervisor.Supervisor
	Updates    <-chan supervisor.Snapshot
	Logs       <-chan logging.LogEntry
	Touch      touch.Source
}

// NewModel builds the initial model.
func NewModel(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		logViewport: viewport.New(0, 0),
		cfg:         opts.Config,
		engine:      opts.Engine,
		resolver:    opts.Resolver,
		sup:         opts.Supervisor,
		updateCh:    opts.Updates,
		logCh:       opts.Logs,
		touchSrc:    opts.Touch,
		snapshot:    opts.Supervisor.Snapshot(),
		mode:        ModeDashboard,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.updateCh != nil {
		cmds = append(cmds, waitForSupervisorUpdate(m.updateCh))
	}
	if m.logCh != nil {
		cmds = append(cmds, waitForLogEntry(m.logCh))
	}
	if m.touchSrc != nil {
		cmds = append(cmds, waitForTouchEvent(m.touchSrc))
	}
	return tea.Batch(cmds...)
}
