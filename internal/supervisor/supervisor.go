// Package supervisor owns the lifecycle of at most one managed external
// process. All transitions execute through a single serialized path, so a
// touch burst can never race-spawn duplicates onto the shared capture
// device; a launch that arrives mid-shutdown is parked in a one-slot
// pending action and applied once Idle is reached.
package supervisor

import (
	"context"
	"sync"
	"time"

	"touchdeck/internal/action"
	"touchdeck/internal/config"
	"touchdeck/pkg/logging"
)

const subsystem = "supervisor"

// shutdownPollInterval paces the wait loop in Shutdown.
const shutdownPollInterval = 20 * time.Millisecond

// Supervisor is the sole gatekeeper for managed processes. Construct it
// with New and share the pointer; it must never be copied.
type Supervisor struct {
	mu       sync.Mutex
	cfg      config.TouchdeckConfig
	launcher Launcher
	updateFn UpdateFunc

	state      State
	active     *ProcessHandle
	activeApp  config.ManagedApp
	pending    *action.Action
	graceTimer *time.Timer
	lastExit   *ExitInfo
	lastErr    error
}

// New creates a supervisor over the configured app set. updateFn may be nil;
// otherwise it is called after every state change with a fresh snapshot.
func New(cfg config.TouchdeckConfig, launcher Launcher, updateFn UpdateFunc) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		launcher: launcher,
		updateFn: updateFn,
		state:    Idle,
	}
}

// Apply executes one resolved action. It is the single entry point for
// touch-driven transitions; launcher events funnel through handleEvent
// under the same lock. The returned error is only ever a *SpawnError —
// every other failure is absorbed, logged, and reflected in the snapshot.
func (s *Supervisor) Apply(a action.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Kind {
	case action.NoOp, action.Quit:
		// Quit is the app layer's concern; it drains us via Shutdown.
		return nil

	case action.Stop:
		// A stop tap also cancels any not-yet-applied launch.
		s.pending = nil
		if s.state == Starting || s.state == Running {
			s.stopActiveLocked()
		}
		return nil

	case action.Launch:
		switch s.state {
		case Idle:
			return s.spawnLocked(a.App)
		case Stopping:
			if s.activeApp.ID == a.App {
				// Toggle-off is in flight; relaunching the same app now
				// would fight its own shutdown.
				return nil
			}
			logging.Info(subsystem, "Deferring %s until %s finishes stopping", a, s.activeApp.ID)
			pended := a
			s.pending = &pended // last-writer-wins, never a queue
			s.notifyLocked()
			return nil
		default: // Starting, Running
			if s.activeApp.ID == a.App {
				return nil
			}
			logging.Info(subsystem, "Switching apps: stopping %s, %s pending", s.activeApp.ID, a)
			pended := a
			s.pending = &pended
			s.stopActiveLocked()
			return nil
		}
	}
	return nil
}

// Snapshot returns a copy of the current state for renderers.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Active describes the current app for the action resolver.
func (s *Supervisor) Active() action.Active {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Idle {
		return action.Active{}
	}
	return action.Active{
		App:                 s.activeApp.ID,
		RequiresVideoDevice: s.activeApp.RequiresVideoDevice,
	}
}

// Shutdown stops the active process (if any) and waits for it to exit. On
// context expiry the process group is killed outright so the device never
// keeps an orphan alive past our own exit.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	if err := s.Apply(action.Action{Kind: action.Stop}); err != nil {
		return err
	}

	ticker := time.NewTicker(shutdownPollInterval)
	defer ticker.Stop()
	for {
		s.mu.Lock()
		if s.state == Idle {
			s.mu.Unlock()
			return nil
		}
		handle := s.active
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			if handle != nil {
				logging.Warn(subsystem, "Shutdown deadline reached, killing %s (pid %d)", handle.App, handle.PID)
				if err := s.launcher.Kill(handle); err != nil {
					logging.Error(subsystem, err, "Failed to kill %s during shutdown", handle.App)
				}
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// handleEvent is the funnel for launcher notifications. Events for a handle
// that is no longer active (a late exit from an already-replaced process)
// only get logged; the invariant that one handle exists outside Idle makes
// them otherwise irrelevant.
func (s *Supervisor) handleEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Kind == EventOutput {
		logging.Debug(subsystem, "[%s] %s", ev.Handle.App, ev.Output)
		return
	}

	if s.active == nil || s.active.ID != ev.Handle.ID {
		logging.Debug(subsystem, "Ignoring stale %v event for %s (pid %d)", ev.Kind, ev.Handle.App, ev.Handle.PID)
		return
	}

	switch ev.Kind {
	case EventLive:
		if s.state == Starting {
			logging.Info(subsystem, "%s confirmed alive (pid %d)", s.activeApp.ID, s.active.PID)
			s.state = Running
			s.notifyLocked()
		}
		// A liveness report during Stopping must not resurrect Running.

	case EventExited:
		s.cancelGraceTimerLocked()

		stopRequested := s.state == Stopping
		exit := &ExitInfo{
			App:      ev.Handle.App,
			Code:     ev.ExitCode,
			Err:      ev.Err,
			Crashed:  !stopRequested && (ev.ExitCode != 0 || ev.Err != nil),
			ExitedAt: time.Now(),
		}
		s.lastExit = exit
		s.active = nil
		s.activeApp = config.ManagedApp{}
		s.state = Idle

		if exit.Crashed {
			s.lastErr = &CrashError{App: exit.App, Code: exit.Code, Err: exit.Err}
			logging.Error(subsystem, ev.Err, "%s crashed with exit code %d", exit.App, exit.Code)
		} else {
			s.lastErr = nil
			logging.Info(subsystem, "%s exited (code %d)", exit.App, exit.Code)
		}
		s.notifyLocked()

		if p := s.pending; p != nil {
			s.pending = nil
			if p.Kind == action.Launch {
				logging.Info(subsystem, "Applying pending %s", p)
				if err := s.spawnLocked(p.App); err != nil {
					logging.Error(subsystem, err, "Pending launch of %s failed", p.App)
				}
			}
		}
	}
}

// spawnLocked starts the app's process and enters Starting. A spawn failure
// leaves the supervisor Idle; the user can simply tap again.
func (s *Supervisor) spawnLocked(appID string) error {
	app, ok := s.cfg.AppByID(appID)
	if !ok {
		err := &SpawnError{App: appID, Err: errUnknownApp}
		s.lastErr = err
		s.notifyLocked()
		return err
	}

	logging.Info(subsystem, "Launching %s: %s %v", app.ID, app.Command, app.Args)
	s.state = Starting
	s.activeApp = app
	s.lastErr = nil

	handle, err := s.launcher.Spawn(app, s.handleEvent)
	if err != nil {
		s.state = Idle
		s.activeApp = config.ManagedApp{}
		spawnErr := &SpawnError{App: app.ID, Err: err}
		s.lastErr = spawnErr
		logging.Error(subsystem, err, "Spawn of %s failed", app.ID)
		s.notifyLocked()
		return spawnErr
	}

	s.active = handle
	s.notifyLocked()
	return nil
}

// stopActiveLocked requests graceful termination and arms the grace timer.
func (s *Supervisor) stopActiveLocked() {
	if s.active == nil {
		return
	}
	handle := s.active
	grace := s.activeApp.GracePeriod
	if grace <= 0 {
		grace = 3 * time.Second
	}

	logging.Info(subsystem, "Stopping %s (pid %d), grace period %s", handle.App, handle.PID, grace)
	s.state = Stopping
	if err := s.launcher.SignalStop(handle); err != nil {
		// Signal delivery failed (process may be a zombie mid-reap); skip
		// straight to the forceful path and let the exit event clean up.
		logging.Error(subsystem, err, "Graceful stop of %s failed, killing", handle.App)
		if killErr := s.launcher.Kill(handle); killErr != nil {
			logging.Error(subsystem, killErr, "Kill of %s failed", handle.App)
		}
	} else {
		handleID := handle.ID
		s.graceTimer = time.AfterFunc(grace, func() { s.escalate(handleID) })
	}
	s.notifyLocked()
}

// escalate fires when the grace timer expires without an exit event.
func (s *Supervisor) escalate(handleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.ID != handleID || s.state != Stopping {
		return
	}
	logging.Warn(subsystem, "%s ignored SIGTERM for its whole grace period, escalating to SIGKILL", s.active.App)
	if err := s.launcher.Kill(s.active); err != nil {
		logging.Error(subsystem, err, "Forceful termination of %s failed", s.active.App)
	}
}

func (s *Supervisor) cancelGraceTimerLocked() {
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
}

func (s *Supervisor) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    s.state,
		LastExit: s.lastExit,
		LastErr:  s.lastErr,
	}
	if s.active != nil {
		snap.ActiveApp = s.active.App
		snap.PID = s.active.PID
		snap.StartedAt = s.active.StartedAt
	}
	if s.pending != nil {
		pended := *s.pending
		snap.Pending = &pended
	}
	return snap
}

func (s *Supervisor) notifyLocked() {
	if s.updateFn != nil {
		s.updateFn(s.snapshotLocked())
	}
}
