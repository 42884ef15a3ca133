package supervisor

import (
	"bufio"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"

	"touchdeck/internal/config"
)

// EventKind discriminates launcher notifications.
type EventKind int

const (
	// EventLive means the process survived the confirmation window.
	EventLive EventKind = iota
	// EventExited means the OS confirmed process exit.
	EventExited
	// EventOutput carries one line of the process's stdout/stderr.
	EventOutput
)

// Event is an asynchronous notification about a spawned process. Events are
// always delivered from launcher-owned goroutines, never from inside Spawn.
type Event struct {
	Handle   *ProcessHandle
	Kind     EventKind
	ExitCode int
	Err      error
	Output   string
}

// EventFunc receives launcher events. The supervisor funnels them into its
// serialized transition path.
type EventFunc func(Event)

// Launcher abstracts OS process control so the state machine is testable
// without spawning real binaries.
type Launcher interface {
	// Spawn starts the app's process and begins watching it. Liveness and
	// exit are reported via events; Spawn itself only fails on immediate
	// start errors (executable missing, permission denied).
	Spawn(app config.ManagedApp, events EventFunc) (*ProcessHandle, error)
	// SignalStop requests graceful termination.
	SignalStop(h *ProcessHandle) error
	// Kill forcefully terminates the process.
	Kill(h *ProcessHandle) error
}

// livenessWindow is how long a spawned process must survive before the
// supervisor treats it as running. The media tools either die instantly
// (bad device, bad file) or keep going, so a short window suffices.
const livenessWindow = 300 * time.Millisecond

// ExecLauncher runs managed apps as real OS processes. Each child gets its
// own process group so stop signals reach the whole tree (mpv and ffplay
// fork decoder helpers).
type ExecLauncher struct {
	// ConfirmAfter overrides the liveness window; zero means the default.
	ConfirmAfter time.Duration
}

// NewExecLauncher returns a launcher with the default liveness window.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

// Spawn implements Launcher.
func (l *ExecLauncher) Spawn(app config.ManagedApp, events EventFunc) (*ProcessHandle, error) {
	cmd := exec.Command(app.Command, app.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", app.ID, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		stdoutPipe.Close()
		return nil, fmt.Errorf("stderr pipe for %s: %w", app.ID, err)
	}

	if err := cmd.Start(); err != nil {
		stdoutPipe.Close()
		stderrPipe.Close()
		return nil, err
	}

	handle := &ProcessHandle{
		ID:        uuid.NewString(),
		App:       app.ID,
		PID:       cmd.Process.Pid,
		StartedAt: time.Now(),
	}

	go func() {
		scanner := bufio.NewScanner(stdoutPipe)
		for scanner.Scan() {
			events(Event{Handle: handle, Kind: EventOutput, Output: scanner.Text()})
		}
	}()
	go func() {
		scanner := bufio.NewScanner(stderrPipe)
		for scanner.Scan() {
			events(Event{Handle: handle, Kind: EventOutput, Output: scanner.Text()})
		}
	}()

	confirmAfter := l.ConfirmAfter
	if confirmAfter == 0 {
		confirmAfter = livenessWindow
	}

	processDone := make(chan error, 1)
	go func() { processDone <- cmd.Wait() }()

	go func() {
		confirm := time.NewTimer(confirmAfter)
		defer confirm.Stop()

		select {
		case waitErr := <-processDone:
			events(Event{Handle: handle, Kind: EventExited, ExitCode: exitCode(waitErr), Err: waitErr})
			return
		case <-confirm.C:
			events(Event{Handle: handle, Kind: EventLive})
		}

		waitErr := <-processDone
		events(Event{Handle: handle, Kind: EventExited, ExitCode: exitCode(waitErr), Err: waitErr})
	}()

	return handle, nil
}

// SignalStop implements Launcher by sending SIGTERM to the process group.
func (l *ExecLauncher) SignalStop(h *ProcessHandle) error {
	return syscall.Kill(-h.PID, syscall.SIGTERM)
}

// Kill implements Launcher by sending SIGKILL to the process group.
func (l *ExecLauncher) Kill(h *ProcessHandle) error {
	return syscall.Kill(-h.PID, syscall.SIGKILL)
}

// exitCode extracts the process exit code from cmd.Wait's error. A death
// by signal reports as -1, which counts as a crash unless a stop was
// requested.
func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
