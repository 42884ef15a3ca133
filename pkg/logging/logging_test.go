package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}

func TestInitForCLI_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Info("test", "hello %s", "world")

	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "subsystem=test")
}

func TestInitForCLI_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelWarn, &buf)

	Debug("test", "too quiet")
	Info("test", "still too quiet")
	Warn("test", "loud enough")

	out := buf.String()
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "loud enough")
}

func TestInitForTUI_DeliversEntries(t *testing.T) {
	ch := InitForTUI(LevelDebug)
	defer CloseTUIChannel()

	Warn("supervisor", "app %s misbehaving", "player")
	Error("supervisor", errors.New("exit status 2"), "crash")

	entry := <-ch
	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, "supervisor", entry.Subsystem)
	assert.Equal(t, "app player misbehaving", entry.Message)
	assert.False(t, entry.Timestamp.IsZero())

	entry = <-ch
	assert.Equal(t, LevelError, entry.Level)
	require.NotNil(t, entry.Err)
	assert.Equal(t, "exit status 2", entry.Err.Error())
}

func TestInitForTUI_FiltersBelowLevel(t *testing.T) {
	ch := InitForTUI(LevelInfo)
	defer CloseTUIChannel()

	Debug("test", "filtered")
	Info("test", "kept")

	entry := <-ch
	assert.Equal(t, "kept", entry.Message)
	assert.Empty(t, ch)
}

func TestTUIChannel_DropsWhenFull(t *testing.T) {
	ch := InitForTUI(LevelDebug)
	defer CloseTUIChannel()

	// Overfill without draining; sends must not block
	for i := 0; i < tuiChannelBufferSize+100; i++ {
		Info("test", "entry %d", i)
	}

	assert.Len(t, ch, tuiChannelBufferSize)
}

func TestCloseTUIChannel_DoubleCloseSafe(t *testing.T) {
	InitForTUI(LevelDebug)
	CloseTUIChannel()
	assert.NotPanics(t, func() { CloseTUIChannel() })
}

func TestMessageWithoutArgsIsNotFormatted(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	// A literal percent in a pre-formatted message must pass through
	Info("test", "disk 90% full")

	assert.True(t, strings.Contains(buf.String(), "disk 90% full"))
}
