package config

import (
	"errors"
	"fmt"
)

// ErrConfig marks configuration validation failures. Callers treat any
// error wrapping it as fatal at startup; it never occurs at runtime because
// the layout and app set are immutable after load.
var ErrConfig = errors.New("invalid configuration")

func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Validate checks the merged configuration: display sanity, zone rectangles
// in-bounds and pairwise non-overlapping, unique ids, and resolvable app
// references. Overlap is rejected here so the hit-test engine's documented
// first-match-in-layout-order tie-break only ever applies to a layout that
// slipped past validation (e.g. hand-constructed in tests).
func Validate(cfg TouchdeckConfig) error {
	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		return configErrorf("display dimensions must be positive, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if len(cfg.Zones) == 0 {
		return configErrorf("layout has no zones")
	}

	zoneIDs := make(map[string]struct{}, len(cfg.Zones))
	for _, z := range cfg.Zones {
		if z.ID == "" {
			return configErrorf("zone with empty id (label %q)", z.Label)
		}
		if _, dup := zoneIDs[z.ID]; dup {
			return configErrorf("duplicate zone id %q", z.ID)
		}
		zoneIDs[z.ID] = struct{}{}

		r := z.Rect
		if r.W <= 0 || r.H <= 0 {
			return configErrorf("zone %q has degenerate rect %dx%d", z.ID, r.W, r.H)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > cfg.Display.Width || r.Y+r.H > cfg.Display.Height {
			return configErrorf("zone %q rect (%d,%d %dx%d) exceeds display bounds %dx%d",
				z.ID, r.X, r.Y, r.W, r.H, cfg.Display.Width, cfg.Display.Height)
		}

		if z.App == "" && !z.Quit {
			return configErrorf("zone %q neither references an app nor is marked quit", z.ID)
		}
		if z.App != "" {
			if _, ok := cfg.AppByID(z.App); !ok {
				return configErrorf("zone %q references unknown app %q", z.ID, z.App)
			}
		}
	}

	for i := 0; i < len(cfg.Zones); i++ {
		for j := i + 1; j < len(cfg.Zones); j++ {
			if cfg.Zones[i].Rect.Overlaps(cfg.Zones[j].Rect) {
				return configErrorf("zones %q and %q overlap", cfg.Zones[i].ID, cfg.Zones[j].ID)
			}
		}
	}

	appIDs := make(map[string]struct{}, len(cfg.Apps))
	for _, app := range cfg.Apps {
		if app.ID == "" {
			return configErrorf("app with empty id (command %q)", app.Command)
		}
		if _, dup := appIDs[app.ID]; dup {
			return configErrorf("duplicate app id %q", app.ID)
		}
		appIDs[app.ID] = struct{}{}
		if app.Command == "" {
			return configErrorf("app %q has no command", app.ID)
		}
		if app.GracePeriod < 0 {
			return configErrorf("app %q has negative grace period", app.ID)
		}
	}

	return nil
}
