// Package action translates hit-tested zones into supervisor actions.
// Resolution is a pure function of (zone, active app), which keeps the
// button-enablement rules deterministically testable.
package action

import (
	"fmt"

	"touchdeck/internal/config"
)

// Kind discriminates the action variants.
type Kind int

const (
	// NoOp means the tap changes nothing (unknown zone, disabled button).
	NoOp Kind = iota
	// Launch starts the app named by App.
	Launch
	// Stop terminates the currently active app.
	Stop
	// Quit shuts the control surface down.
	Quit
)

// String makes Kind satisfy fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case NoOp:
		return "NoOp"
	case Launch:
		return "Launch"
	case Stop:
		return "Stop"
	case Quit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Action is produced by the resolver and consumed exactly once by the
// supervisor.
type Action struct {
	Kind Kind
	App  string // Managed app id; set only for Launch
}

// String renders the action for logs.
func (a Action) String() string {
	if a.Kind == Launch {
		return fmt.Sprintf("Launch(%s)", a.App)
	}
	return a.Kind.String()
}

// Active describes the supervisor's currently active app, as much of its
// state as resolution needs. The zero value means no app is active.
type Active struct {
	App                 string
	RequiresVideoDevice bool
}

// Resolver maps (zone, active) pairs to actions over a fixed app set.
type Resolver struct {
	cfg config.TouchdeckConfig
}

// New builds a resolver for the loaded configuration.
func New(cfg config.TouchdeckConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve encodes which buttons are valid while an app is running:
//   - quit zone always resolves to Quit
//   - tapping the active app's own zone toggles it off (Stop)
//   - tapping a different app while the active one holds the exclusive
//     capture device, and the target would contend for it, is disabled (NoOp)
//   - any other app zone resolves to Launch; the supervisor serializes the
//     stop-then-start if something else is still running
//   - unknown or appless zones resolve to NoOp
func (r *Resolver) Resolve(zone config.Zone, active Active) Action {
	if zone.Quit {
		return Action{Kind: Quit}
	}
	if zone.App == "" {
		return Action{Kind: NoOp}
	}
	if active.App == zone.App {
		return Action{Kind: Stop}
	}
	if r.Disabled(zone, active) {
		return Action{Kind: NoOp}
	}
	return Action{Kind: Launch, App: zone.App}
}

// Disabled reports whether a zone's button is currently disabled: the
// active app holds the exclusive video device and the zone's app would
// contend for it. The renderer uses the same predicate to gray buttons out.
func (r *Resolver) Disabled(zone config.Zone, active Active) bool {
	if zone.App == "" || active.App == "" || active.App == zone.App {
		return false
	}
	if !active.RequiresVideoDevice {
		return false
	}
	target, ok := r.cfg.AppByID(zone.App)
	if !ok {
		return true
	}
	return target.RequiresVideoDevice
}
