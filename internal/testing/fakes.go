package testing

import (
	"sync"

	"github.com/google/uuid"

	"touchdeck/internal/config"
	"touchdeck/internal/supervisor"
	"touchdeck/internal/touch"
)

// FakeProcess is one live fake spawn. Tests confirm liveness or exit by
// calling its methods; events are delivered on a fresh goroutine-free path,
// matching the launcher contract that events never arrive from inside
// Spawn.
type FakeProcess struct {
	Handle *supervisor.ProcessHandle
	App    config.ManagedApp

	events     supervisor.EventFunc
	mu         sync.Mutex
	termed     bool
	killed     bool
	exitedOnce bool
}

// ConfirmLive reports the process as having survived the liveness window.
func (p *FakeProcess) ConfirmLive() {
	p.events(supervisor.Event{Handle: p.Handle, Kind: supervisor.EventLive})
}

// Exit reports process exit with the given code. Subsequent calls are
// ignored, as a real process only dies once.
func (p *FakeProcess) Exit(code int, err error) {
	p.mu.Lock()
	if p.exitedOnce {
		p.mu.Unlock()
		return
	}
	p.exitedOnce = true
	p.mu.Unlock()
	p.events(supervisor.Event{Handle: p.Handle, Kind: supervisor.EventExited, ExitCode: code, Err: err})
}

// Output reports one line of process output.
func (p *FakeProcess) Output(line string) {
	p.events(supervisor.Event{Handle: p.Handle, Kind: supervisor.EventOutput, Output: line})
}

// Terminated reports whether SignalStop was delivered.
func (p *FakeProcess) Terminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.termed
}

// Killed reports whether Kill was delivered.
func (p *FakeProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// FakeLauncher implements supervisor.Launcher without real processes.
type FakeLauncher struct {
	mu        sync.Mutex
	processes []*FakeProcess
	spawnErr  error
	nextPID   int
}

// NewFakeLauncher returns an empty fake launcher.
func NewFakeLauncher() *FakeLauncher {
	return &FakeLauncher{nextPID: 1000}
}

// FailNextSpawn makes the next Spawn call return err.
func (l *FakeLauncher) FailNextSpawn(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.spawnErr = err
}

// Spawn implements supervisor.Launcher.
func (l *FakeLauncher) Spawn(app config.ManagedApp, events supervisor.EventFunc) (*supervisor.ProcessHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.spawnErr != nil {
		err := l.spawnErr
		l.spawnErr = nil
		return nil, err
	}

	l.nextPID++
	p := &FakeProcess{
		Handle: &supervisor.ProcessHandle{
			ID:  uuid.NewString(),
			App: app.ID,
			PID: l.nextPID,
		},
		App:    app,
		events: events,
	}
	l.processes = append(l.processes, p)
	return p.Handle, nil
}

// SignalStop implements supervisor.Launcher.
func (l *FakeLauncher) SignalStop(h *supervisor.ProcessHandle) error {
	if p := l.find(h); p != nil {
		p.mu.Lock()
		p.termed = true
		p.mu.Unlock()
	}
	return nil
}

// Kill implements supervisor.Launcher.
func (l *FakeLauncher) Kill(h *supervisor.ProcessHandle) error {
	if p := l.find(h); p != nil {
		p.mu.Lock()
		p.killed = true
		p.mu.Unlock()
	}
	return nil
}

// Spawned returns every fake process in spawn order.
func (l *FakeLauncher) Spawned() []*FakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*FakeProcess, len(l.processes))
	copy(out, l.processes)
	return out
}

// Last returns the most recent spawn, or nil.
func (l *FakeLauncher) Last() *FakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.processes) == 0 {
		return nil
	}
	return l.processes[len(l.processes)-1]
}

func (l *FakeLauncher) find(h *supervisor.ProcessHandle) *FakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.processes {
		if p.Handle.ID == h.ID {
			return p
		}
	}
	return nil
}

// ScriptedSource replays a fixed touch event sequence and then closes.
type ScriptedSource struct {
	ch     chan touch.Event
	closed sync.Once
}

// NewScriptedSource queues the given events for delivery.
func NewScriptedSource(events ...touch.Event) *ScriptedSource {
	s := &ScriptedSource{ch: make(chan touch.Event, len(events))}
	for _, ev := range events {
		s.ch <- ev
	}
	return s
}

// Events implements touch.Source.
func (s *ScriptedSource) Events() <-chan touch.Event {
	return s.ch
}

// Close implements touch.Source.
func (s *ScriptedSource) Close() error {
	s.closed.Do(func() { close(s.ch) })
	return nil
}
