package config

import (
	"time"
)

// TouchdeckConfig is the top-level configuration structure for touchdeck.
type TouchdeckConfig struct {
	Display Display      `yaml:"display"`
	Input   InputConfig  `yaml:"input"`
	Zones   []Zone       `yaml:"zones"`
	Apps    []ManagedApp `yaml:"apps"`
}

// Display describes the touch panel's pixel dimensions. Touch coordinates
// and zone rectangles share this coordinate space.
type Display struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// InputConfig describes where decoded touch events come from. The decoder
// (out of scope here) writes one event per line to a FIFO or pipe.
type InputConfig struct {
	EventPath string `yaml:"eventPath,omitempty"` // e.g. "/run/touchdeck/events"; empty means stdin in headless mode
}

// Rect is an axis-aligned rectangle in display pixel space.
// Containment is half-open: [X, X+W) x [Y, Y+H).
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Contains reports whether the point (px, py) lies inside the rectangle.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// Overlaps reports whether two rectangles share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Zone is a named rectangular hit-test region on the touch display.
// Zones with an empty App are control zones (currently only "quit").
type Zone struct {
	ID    string `yaml:"id"`              // Unique zone identifier, e.g. "play"
	Label string `yaml:"label"`           // Text rendered inside the zone
	App   string `yaml:"app,omitempty"`   // ManagedApp id this zone launches; empty for control zones
	Quit  bool   `yaml:"quit,omitempty"`  // Marks the shutdown zone
	Icon  string `yaml:"icon,omitempty"`  // Optional glyph for display
	Rect  Rect   `yaml:"rect"`
}

// ManagedApp describes an external program whose lifecycle the supervisor
// controls. Descriptors are immutable after load.
type ManagedApp struct {
	ID                  string        `yaml:"id"`                            // e.g. "player", "mirror", "camera"
	Command             string        `yaml:"command"`                       // Executable, e.g. "mpv"
	Args                []string      `yaml:"args,omitempty"`                // Static argv tail
	RequiresVideoDevice bool          `yaml:"requiresVideoDevice,omitempty"` // Holds the exclusive capture device while running
	GracePeriod         time.Duration `yaml:"gracePeriod,omitempty"`         // SIGTERM -> SIGKILL escalation window
}

// AppByID returns the managed app descriptor with the given id.
func (c TouchdeckConfig) AppByID(id string) (ManagedApp, bool) {
	for _, app := range c.Apps {
		if app.ID == id {
			return app, true
		}
	}
	return ManagedApp{}, false
}

// ZoneByID returns the zone with the given id.
func (c TouchdeckConfig) ZoneByID(id string) (Zone, bool) {
	for _, z := range c.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}
