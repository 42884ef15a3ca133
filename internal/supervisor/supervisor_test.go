package supervisor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touchdeck/internal/action"
	"touchdeck/internal/config"
	"touchdeck/internal/supervisor"
	tdtesting "touchdeck/internal/testing"
)

func supervisorConfig() config.TouchdeckConfig {
	return config.TouchdeckConfig{
		Display: config.Display{Width: 800, Height: 480},
		Apps: []config.ManagedApp{
			{ID: "player", Command: "mpv", GracePeriod: time.Second},
			{ID: "camera", Command: "ffplay", RequiresVideoDevice: true, GracePeriod: time.Second},
			{ID: "pattern", Command: "ffplay", GracePeriod: time.Second},
			{ID: "twitchy", Command: "uxplay", GracePeriod: 20 * time.Millisecond},
		},
	}
}

// snapshotRecorder collects update callbacks for later assertions.
type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []supervisor.Snapshot
}

func (r *snapshotRecorder) record(s supervisor.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *snapshotRecorder) states() []supervisor.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]supervisor.State, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.State
	}
	return out
}

func newTestSupervisor(t *testing.T) (*supervisor.Supervisor, *tdtesting.FakeLauncher, *snapshotRecorder) {
	t.Helper()
	launcher := tdtesting.NewFakeLauncher()
	rec := &snapshotRecorder{}
	sup := supervisor.New(supervisorConfig(), launcher, rec.record)
	return sup, launcher, rec
}

func TestLaunchConfirmRun(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	assert.Equal(t, supervisor.Starting, sup.Snapshot().State)
	assert.Equal(t, "player", sup.Snapshot().ActiveApp)

	p := launcher.Last()
	require.NotNil(t, p)
	p.ConfirmLive()

	snap := sup.Snapshot()
	assert.Equal(t, supervisor.Running, snap.State)
	assert.Equal(t, "player", snap.ActiveApp)
	assert.Equal(t, p.Handle.PID, snap.PID)
	assert.Equal(t, action.Active{App: "player"}, sup.Active())
}

func TestStopIsGracefulThenIdle(t *testing.T) {
	sup, launcher, rec := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	p := launcher.Last()
	p.ConfirmLive()

	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}))
	assert.Equal(t, supervisor.Stopping, sup.Snapshot().State)
	assert.True(t, p.Terminated())
	assert.False(t, p.Killed())

	p.Exit(0, nil)

	snap := sup.Snapshot()
	assert.Equal(t, supervisor.Idle, snap.State)
	assert.Empty(t, snap.ActiveApp)
	require.NotNil(t, snap.LastExit)
	assert.False(t, snap.LastExit.Crashed, "requested stop is not a crash")
	assert.Equal(t, []supervisor.State{
		supervisor.Starting, supervisor.Running, supervisor.Stopping, supervisor.Idle,
	}, rec.states())
}

func TestTapSwitchStopsThenStarts(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	player := launcher.Last()
	player.ConfirmLive()

	// Switching apps does not spawn until the old process is fully gone
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "camera"}))
	assert.Equal(t, supervisor.Stopping, sup.Snapshot().State)
	assert.True(t, player.Terminated())
	require.NotNil(t, sup.Snapshot().Pending)
	assert.Len(t, launcher.Spawned(), 1, "no overlapping processes")

	player.Exit(0, nil)

	camera := launcher.Last()
	require.NotNil(t, camera)
	assert.Equal(t, "camera", camera.Handle.App)
	assert.Equal(t, supervisor.Starting, sup.Snapshot().State)
	assert.Nil(t, sup.Snapshot().Pending)

	camera.ConfirmLive()
	assert.Equal(t, supervisor.Running, sup.Snapshot().State)
	assert.Equal(t, action.Active{App: "camera", RequiresVideoDevice: true}, sup.Active())
}

func TestPendingIsLastWriterWins(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	player := launcher.Last()
	player.ConfirmLive()

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "camera"}))
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "pattern"}))

	player.Exit(0, nil)

	assert.Len(t, launcher.Spawned(), 2, "only the final pending launch runs")
	assert.Equal(t, "pattern", launcher.Last().Handle.App)
}

func TestSameAppLaunchIsIdempotent(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	assert.Len(t, launcher.Spawned(), 1)

	launcher.Last().ConfirmLive()
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	assert.Len(t, launcher.Spawned(), 1)
}

func TestRelaunchDuringOwnStopIsIgnored(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	player := launcher.Last()
	player.ConfirmLive()
	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}))

	// Tapping the same zone again mid-stop must not queue a relaunch
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	assert.Nil(t, sup.Snapshot().Pending)

	player.Exit(0, nil)
	assert.Equal(t, supervisor.Idle, sup.Snapshot().State)
	assert.Len(t, launcher.Spawned(), 1)
}

func TestStopCancelsPendingLaunch(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	player := launcher.Last()
	player.ConfirmLive()

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "camera"}))
	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}))
	assert.Nil(t, sup.Snapshot().Pending)

	player.Exit(0, nil)
	assert.Equal(t, supervisor.Idle, sup.Snapshot().State)
	assert.Len(t, launcher.Spawned(), 1)
}

func TestCrashReturnsToIdle(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	player := launcher.Last()
	player.ConfirmLive()

	player.Exit(2, errors.New("exit status 2"))

	snap := sup.Snapshot()
	assert.Equal(t, supervisor.Idle, snap.State)
	require.NotNil(t, snap.LastExit)
	assert.True(t, snap.LastExit.Crashed)
	assert.Equal(t, 2, snap.LastExit.Code)

	var crash *supervisor.CrashError
	require.ErrorAs(t, snap.LastErr, &crash)
	assert.Equal(t, "player", crash.App)

	// The zone is immediately tappable again
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	assert.Len(t, launcher.Spawned(), 2)
}

func TestExitBeforeLivenessIsACrash(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "camera"}))
	launcher.Last().Exit(1, errors.New("exit status 1"))

	snap := sup.Snapshot()
	assert.Equal(t, supervisor.Idle, snap.State)
	require.NotNil(t, snap.LastExit)
	assert.True(t, snap.LastExit.Crashed, "dying inside the confirmation window is a failed start")
}

func TestSpawnFailureStaysIdle(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	launcher.FailNextSpawn(errors.New("no such file or directory"))
	err := sup.Apply(action.Action{Kind: action.Launch, App: "player"})

	var spawnErr *supervisor.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "player", spawnErr.App)
	assert.Equal(t, supervisor.Idle, sup.Snapshot().State)

	// Next tap simply retries
	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	assert.Equal(t, supervisor.Starting, sup.Snapshot().State)
}

func TestUnknownAppIsASpawnError(t *testing.T) {
	sup, _, _ := newTestSupervisor(t)

	err := sup.Apply(action.Action{Kind: action.Launch, App: "ghost"})

	var spawnErr *supervisor.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, supervisor.Idle, sup.Snapshot().State)
}

func TestGraceEscalationKills(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "twitchy"}))
	p := launcher.Last()
	p.ConfirmLive()

	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}))
	assert.True(t, p.Terminated())

	assert.Eventually(t, p.Killed, time.Second, 5*time.Millisecond,
		"SIGKILL must follow when the grace period elapses without an exit")

	p.Exit(-1, errors.New("signal: killed"))
	assert.Equal(t, supervisor.Idle, sup.Snapshot().State)
}

func TestCleanExitCancelsGraceTimer(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "twitchy"}))
	p := launcher.Last()
	p.ConfirmLive()

	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}))
	p.Exit(0, nil)

	// Give the (cancelled) grace timer a chance to misfire
	time.Sleep(50 * time.Millisecond)
	assert.False(t, p.Killed())
}

func TestStaleEventsAreIgnored(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	old := launcher.Last()
	old.ConfirmLive()
	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}))
	old.Exit(0, nil)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "camera"}))

	// A late liveness report from the dead process must not touch the new
	// one's state
	old.ConfirmLive()
	snap := sup.Snapshot()
	assert.Equal(t, supervisor.Starting, snap.State)
	assert.Equal(t, "camera", snap.ActiveApp)
}

func TestNoOpAndQuitAreInert(t *testing.T) {
	sup, launcher, rec := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.NoOp}))
	require.NoError(t, sup.Apply(action.Action{Kind: action.Quit}))
	require.NoError(t, sup.Apply(action.Action{Kind: action.Stop}), "stop while idle is harmless")

	assert.Empty(t, launcher.Spawned())
	assert.Empty(t, rec.states())
}

func TestShutdownDrainsActiveProcess(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	p := launcher.Last()
	p.ConfirmLive()

	done := make(chan error, 1)
	go func() { done <- sup.Shutdown(context.Background()) }()

	require.Eventually(t, p.Terminated, time.Second, 5*time.Millisecond)
	p.Exit(0, nil)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after the process exited")
	}
	assert.Equal(t, supervisor.Idle, sup.Snapshot().State)
}

func TestShutdownDeadlineKills(t *testing.T) {
	sup, launcher, _ := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	p := launcher.Last()
	p.ConfirmLive()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := sup.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, p.Killed(), "an unresponsive process must not outlive the surface")
}

func TestOutputEventsDoNotChangeState(t *testing.T) {
	sup, launcher, rec := newTestSupervisor(t)

	require.NoError(t, sup.Apply(action.Action{Kind: action.Launch, App: "player"}))
	p := launcher.Last()
	before := len(rec.states())

	p.Output("AO: [alsa] 48000Hz stereo")
	p.Output("VO: [drm] 800x480")

	assert.Equal(t, supervisor.Starting, sup.Snapshot().State)
	assert.Len(t, rec.states(), before, "output lines are logged, not state changes")
}
