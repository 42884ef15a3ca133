// Package hittest maps raw touch coordinates to layout zones. The engine is
// a pure function over an immutable zone list; it holds no other state.
package hittest

import (
	"touchdeck/internal/config"
)

// Point is a coordinate in display pixel space.
type Point struct {
	X int
	Y int
}

// Engine resolves points against a fixed, validated layout.
type Engine struct {
	zones []config.Zone
}

// New builds an engine over the given zones. The slice is copied so later
// mutation of the caller's layout cannot change dispatch behavior.
func New(zones []config.Zone) *Engine {
	copied := make([]config.Zone, len(zones))
	copy(copied, zones)
	return &Engine{zones: copied}
}

// Resolve returns the zone containing p. Containment is half-open
// ([x, x+w) x [y, y+h)), so a touch exactly on a shared edge belongs to the
// zone on the right/below side of that edge. Validated layouts never
// overlap; if a malformed one does, the first zone in layout order wins.
func (e *Engine) Resolve(p Point) (config.Zone, bool) {
	for _, z := range e.zones {
		if z.Rect.Contains(p.X, p.Y) {
			return z, true
		}
	}
	return config.Zone{}, false
}

// Zones returns the layout in order, for renderers.
func (e *Engine) Zones() []config.Zone {
	return e.zones
}
