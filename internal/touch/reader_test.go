package touch

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		line      string
		wantPhase Phase
		wantX     int
		wantY     int
	}{
		{"down 400 240", Down, 400, 240},
		{"up 0 0", Up, 0, 0},
		{"move 799 479", Move, 799, 479},
		{"  down   10   20  ", Down, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, err := ParseEvent(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPhase, ev.Phase)
			assert.Equal(t, tt.wantX, ev.X)
			assert.Equal(t, tt.wantY, ev.Y)
			assert.False(t, ev.Time.IsZero())
		})
	}
}

func TestParseEvent_Malformed(t *testing.T) {
	for _, line := range []string{
		"",
		"down",
		"down 10",
		"down 10 20 30",
		"hover 10 20",
		"down ten 20",
		"down 10 twenty",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseEvent(line)
			assert.Error(t, err)
		})
	}
}

func collectEvents(t *testing.T, src Source, want int) []Event {
	t.Helper()
	var got []Event
	deadline := time.After(time.Second)
	for len(got) < want {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(got), want)
		}
	}
	return got
}

func TestReaderSource_DeliversInOrder(t *testing.T) {
	input := "down 10 20\nup 10 20\ndown 500 300\n"
	src := NewReaderSource(io.NopCloser(strings.NewReader(input)))
	defer src.Close()

	got := collectEvents(t, src, 3)
	assert.Equal(t, Down, got[0].Phase)
	assert.Equal(t, Up, got[1].Phase)
	assert.Equal(t, 500, got[2].X)
}

func TestReaderSource_SkipsMalformedLines(t *testing.T) {
	input := "down 10 20\ngarbage\ndown 30 40\n"
	src := NewReaderSource(io.NopCloser(strings.NewReader(input)))
	defer src.Close()

	got := collectEvents(t, src, 2)
	assert.Equal(t, 10, got[0].X)
	assert.Equal(t, 30, got[1].X)
}

func TestReaderSource_ClosesChannelOnEOF(t *testing.T) {
	src := NewReaderSource(io.NopCloser(strings.NewReader("down 1 2\n")))

	collectEvents(t, src, 1)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "channel must close once the stream ends")
	case <-time.After(time.Second):
		t.Fatal("channel did not close after EOF")
	}
}

func TestReaderSource_DropsOldestOnOverflow(t *testing.T) {
	var sb strings.Builder
	total := eventChannelBuffer * 3
	for i := 0; i < total; i++ {
		fmt.Fprintf(&sb, "down %d 0\n", i)
	}
	src := NewReaderSource(io.NopCloser(strings.NewReader(sb.String())))
	defer src.Close()

	// Let the scanner race ahead and overflow the intake before reading
	time.Sleep(50 * time.Millisecond)

	var got []Event
	for ev := range src.Events() {
		got = append(got, ev)
	}

	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), eventChannelBuffer+1)
	assert.Equal(t, total-1, got[len(got)-1].X, "the newest event always survives")
}
