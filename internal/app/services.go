package app

import (
	"fmt"
	"os"

	"touchdeck/internal/action"
	"touchdeck/internal/hittest"
	"touchdeck/internal/supervisor"
	"touchdeck/internal/touch"
	"touchdeck/pkg/logging"
)

// updateChannelBuffer bounds the supervisor snapshot stream. The consumer
// only ever cares about the latest snapshot, so on overflow the oldest is
// dropped.
const updateChannelBuffer = 16

// Services holds the wired collaborators behind one control surface.
type Services struct {
	Engine     *hittest.Engine
	Resolver   *action.Resolver
	Launcher   *supervisor.ExecLauncher
	Supervisor *supervisor.Supervisor
	Updates    chan supervisor.Snapshot
}

// InitializeServices wires the tap pipeline: hit-test engine, action
// resolver, process launcher, and supervisor publishing snapshots onto
// Updates.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.TouchdeckConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	engine := hittest.New(cfg.TouchdeckConfig.Zones)
	resolver := action.New(*cfg.TouchdeckConfig)
	launcher := supervisor.NewExecLauncher()
	updates := make(chan supervisor.Snapshot, updateChannelBuffer)

	sup := supervisor.New(*cfg.TouchdeckConfig, launcher, func(snap supervisor.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	})

	return &Services{
		Engine:     engine,
		Resolver:   resolver,
		Launcher:   launcher,
		Supervisor: sup,
		Updates:    updates,
	}, nil
}

// openTouchSource attaches to the decoder's event stream. "-" reads from
// stdin, which is how the decoder pipes into us under systemd.
func openTouchSource(cfg *Config) (touch.Source, error) {
	path := cfg.TouchdeckConfig.Input.EventPath
	if cfg.InputPath != "" {
		path = cfg.InputPath
	}
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return touch.NewReaderSource(os.Stdin), nil
	}

	// O_RDWR keeps a FIFO open across decoder restarts: read-only would
	// block here until a writer appears and EOF every time one leaves.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open touch event stream %s: %w", path, err)
	}
	logging.Info("Bootstrap", "Reading touch events from %s", path)
	return touch.NewReaderSource(f), nil
}
