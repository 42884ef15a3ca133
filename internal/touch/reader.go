package touch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"touchdeck/pkg/logging"
)

const subsystem = "touch"

// eventChannelBuffer bounds the intake queue. The dispatch loop coalesces
// bursts via the supervisor's pending slot, so a small buffer is enough and
// the queue can never grow without bound.
const eventChannelBuffer = 16

// ReaderSource parses decoded touch events from a line stream, one event
// per line: "<phase> <x> <y>", e.g. "down 400 240". This is the wire format
// the external event decoder writes to its FIFO.
type ReaderSource struct {
	rc     io.ReadCloser
	events chan Event
}

// NewReaderSource starts scanning rc. Malformed lines are logged and
// skipped rather than terminating the stream; a flaky decoder must not take
// the control surface down with it.
func NewReaderSource(rc io.ReadCloser) *ReaderSource {
	s := &ReaderSource{
		rc:     rc,
		events: make(chan Event, eventChannelBuffer),
	}
	go s.scan()
	return s
}

// Events implements Source.
func (s *ReaderSource) Events() <-chan Event {
	return s.events
}

// Close implements Source. Closing the reader unblocks the scan goroutine,
// which then closes the event channel.
func (s *ReaderSource) Close() error {
	return s.rc.Close()
}

func (s *ReaderSource) scan() {
	defer close(s.events)
	scanner := bufio.NewScanner(s.rc)
	for scanner.Scan() {
		ev, err := ParseEvent(scanner.Text())
		if err != nil {
			logging.Warn(subsystem, "Dropping malformed touch event: %v", err)
			continue
		}
		select {
		case s.events <- ev:
		default:
			// Intake full: drop the oldest so the newest tap wins, matching
			// the coalescing policy downstream.
			select {
			case <-s.events:
			default:
			}
			s.events <- ev
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Error(subsystem, err, "Touch event stream failed")
	}
}

// ParseEvent decodes one "<phase> <x> <y>" line.
func ParseEvent(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Event{}, fmt.Errorf("expected 3 fields, got %d in %q", len(fields), line)
	}

	var phase Phase
	switch fields[0] {
	case "down":
		phase = Down
	case "up":
		phase = Up
	case "move":
		phase = Move
	default:
		return Event{}, fmt.Errorf("unknown phase %q", fields[0])
	}

	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return Event{}, fmt.Errorf("bad x coordinate %q", fields[1])
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return Event{}, fmt.Errorf("bad y coordinate %q", fields[2])
	}

	return Event{X: x, Y: y, Phase: phase, Time: time.Now()}, nil
}
