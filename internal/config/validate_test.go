package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() TouchdeckConfig {
	return TouchdeckConfig{
		Display: Display{Width: 800, Height: 480},
		Zones: []Zone{
			{ID: "a", Label: "A", App: "x", Rect: Rect{X: 0, Y: 0, W: 400, H: 480}},
			{ID: "b", Label: "B", App: "y", Rect: Rect{X: 400, Y: 0, W: 400, H: 480}},
		},
		Apps: []ManagedApp{
			{ID: "x", Command: "true"},
			{ID: "y", Command: "false"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_DefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, Validate(GetDefaultConfig()))
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TouchdeckConfig)
	}{
		{"zero display", func(c *TouchdeckConfig) { c.Display.Width = 0 }},
		{"no zones", func(c *TouchdeckConfig) { c.Zones = nil }},
		{"empty zone id", func(c *TouchdeckConfig) { c.Zones[0].ID = "" }},
		{"duplicate zone id", func(c *TouchdeckConfig) { c.Zones[1].ID = "a" }},
		{"degenerate rect", func(c *TouchdeckConfig) { c.Zones[0].Rect.W = 0 }},
		{"negative origin", func(c *TouchdeckConfig) { c.Zones[0].Rect.X = -1 }},
		{"out of bounds", func(c *TouchdeckConfig) { c.Zones[1].Rect.W = 500 }},
		{"appless non-quit zone", func(c *TouchdeckConfig) { c.Zones[0].App = "" }},
		{"unknown app reference", func(c *TouchdeckConfig) { c.Zones[0].App = "ghost" }},
		{"overlap", func(c *TouchdeckConfig) { c.Zones[1].Rect.X = 399 }},
		{"empty app id", func(c *TouchdeckConfig) { c.Apps[0].ID = ""; c.Zones[0].App = "y" }},
		{"duplicate app id", func(c *TouchdeckConfig) { c.Apps[1].ID = "x"; c.Zones[1].App = "x" }},
		{"empty command", func(c *TouchdeckConfig) { c.Apps[0].Command = "" }},
		{"negative grace", func(c *TouchdeckConfig) { c.Apps[0].GracePeriod = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestValidate_QuitZoneNeedsNoApp(t *testing.T) {
	cfg := validConfig()
	cfg.Zones[0].App = ""
	cfg.Zones[0].Quit = true
	assert.NoError(t, Validate(cfg))
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	assert.True(t, r.Contains(10, 20), "top-left corner is inside")
	assert.True(t, r.Contains(109, 69), "last interior point is inside")
	assert.False(t, r.Contains(110, 20), "right edge is outside")
	assert.False(t, r.Contains(10, 70), "bottom edge is outside")
	assert.False(t, r.Contains(9, 20))
	assert.False(t, r.Contains(10, 19))
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}

	assert.False(t, a.Overlaps(Rect{X: 100, Y: 0, W: 100, H: 100}), "edge-adjacent rects do not overlap")
	assert.False(t, a.Overlaps(Rect{X: 0, Y: 100, W: 100, H: 100}))
	assert.True(t, a.Overlaps(Rect{X: 99, Y: 99, W: 10, H: 10}))
	assert.True(t, a.Overlaps(Rect{X: -5, Y: -5, W: 10, H: 10}))
	assert.True(t, a.Overlaps(a))
}
