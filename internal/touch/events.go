// Package touch defines the decoded touch event boundary. The input driver
// itself lives outside this program; an external decoder hands us already
// decoded coordinates and press/release phases.
package touch

import "time"

// Phase classifies a touch event. Only Down is actionable today; Up and
// Move are accepted so a future gesture layer has somewhere to start.
type Phase int

const (
	Down Phase = iota
	Up
	Move
)

// String makes Phase satisfy the fmt.Stringer interface.
func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Up:
		return "up"
	case Move:
		return "move"
	default:
		return "unknown"
	}
}

// Event is one decoded touch sample in display pixel space.
type Event struct {
	X    int
	Y    int
	Phase Phase
	Time time.Time
}

// Source delivers decoded touch events. The channel closes when the
// underlying stream ends or the source is closed.
type Source interface {
	Events() <-chan Event
	Close() error
}
