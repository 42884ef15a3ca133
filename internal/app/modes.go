package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"touchdeck/internal/action"
	"touchdeck/internal/hittest"
	"touchdeck/internal/touch"
	"touchdeck/internal/tui"
	"touchdeck/pkg/logging"
)

// shutdownBudget bounds the final drain of the active app on exit. It must
// exceed the longest configured grace period so SIGKILL escalation fires
// before we give up.
const shutdownBudget = 5 * time.Second

// errQuitRequested ends the headless loop when the shutdown zone is tapped.
var errQuitRequested = errors.New("quit requested")

// runCLIMode executes the headless mode: no renderer, just the tap
// pipeline driven straight from the decoder stream.
func runCLIMode(ctx context.Context, cfg *Config, services *Services) error {
	logging.Info("CLI", "Running headless (no TUI)")

	src, err := openTouchSource(cfg)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("headless mode requires a touch event stream (set input.eventPath or --input)")
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-src.Events():
				if !ok {
					return fmt.Errorf("touch event stream ended")
				}
				if ev.Phase != touch.Down {
					continue
				}
				zone, hit := services.Engine.Resolve(hittest.Point{X: ev.X, Y: ev.Y})
				if !hit {
					continue
				}
				act := services.Resolver.Resolve(zone, services.Supervisor.Active())
				logging.Debug("CLI", "Tap (%d,%d) zone %s -> %s", ev.X, ev.Y, zone.ID, act)
				if act.Kind == action.Quit {
					return errQuitRequested
				}
				if err := services.Supervisor.Apply(act); err != nil {
					logging.Error("CLI", err, "Action %s failed", act)
				}
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case snap := <-services.Updates:
				if snap.ActiveApp != "" {
					logging.Info("CLI", "State %s (%s)", snap.State, snap.ActiveApp)
				} else {
					logging.Info("CLI", "State %s", snap.State)
				}
			}
		}
	})

	runErr := g.Wait()

	logging.Info("CLI", "Shutting down")
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownBudget)
	defer cancel()
	if err := services.Supervisor.Shutdown(drainCtx); err != nil {
		logging.Error("CLI", err, "Shutdown did not complete cleanly")
	}

	if errors.Is(runErr, errQuitRequested) || errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, cfg *Config, services *Services) error {
	logLevel := logging.LevelInfo
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}

	// Switch logging to channel-based delivery for the activity log panel
	logChan := logging.InitForTUI(logLevel)
	defer logging.CloseTUIChannel()

	// The panel is optional in TUI mode: without a decoder attached the
	// surface still works via keyboard and mouse.
	src, err := openTouchSource(cfg)
	if err != nil {
		logging.Warn("TUI-Lifecycle", "Touch input unavailable: %v", err)
		src = nil
	}
	if src != nil {
		defer src.Close()
	}

	m := tui.NewModel(tui.Options{
		Config:     *cfg.TouchdeckConfig,
		Engine:     services.Engine,
		Resolver:   services.Resolver,
		Supervisor: services.Supervisor,
		Updates:    services.Updates,
		Logs:       logChan,
		Touch:      src,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		return err
	}
	logging.Info("TUI-Lifecycle", "TUI exited.")

	return nil
}
