package config

import "time"

// defaultGracePeriod bounds how long a stopping process gets after SIGTERM
// before the supervisor escalates to SIGKILL.
const defaultGracePeriod = 3 * time.Second

// GetDefaultConfig returns the built-in configuration: the Waveshare 4.3"
// panel geometry the wrist unit ships with, a 2x2 app grid plus a quit bar,
// and the stock media tools.
func GetDefaultConfig() TouchdeckConfig {
	return TouchdeckConfig{
		Display: Display{Width: 800, Height: 480},
		Zones: []Zone{
			{ID: "play", Label: "Video Player", App: "player", Icon: "▶", Rect: Rect{X: 0, Y: 0, W: 400, H: 200}},
			{ID: "mirror", Label: "AirPlay", App: "mirror", Icon: "📱", Rect: Rect{X: 400, Y: 0, W: 400, H: 200}},
			{ID: "camera", Label: "Camera", App: "camera", Icon: "📷", Rect: Rect{X: 0, Y: 200, W: 400, H: 200}},
			{ID: "pattern", Label: "Test Pattern", App: "pattern", Icon: "▦", Rect: Rect{X: 400, Y: 200, W: 400, H: 200}},
			{ID: "quit", Label: "Exit", Quit: true, Rect: Rect{X: 0, Y: 400, W: 800, H: 80}},
		},
		Apps: []ManagedApp{
			{
				ID:      "player",
				Command: "mpv",
				Args: []string{
					"--quiet", "--vo=drm", "--fullscreen",
					"--input-ipc-server=/tmp/mpvsocket",
					"/opt/touchdeck/content",
				},
				GracePeriod: defaultGracePeriod,
			},
			{
				ID:          "mirror",
				Command:     "uxplay",
				Args:        []string{"-n", "touchdeck", "-nh", "-fs"},
				GracePeriod: defaultGracePeriod,
			},
			{
				ID:                  "camera",
				Command:             "ffplay",
				Args:                []string{"-fs", "-an", "-f", "v4l2", "-i", "/dev/video0"},
				RequiresVideoDevice: true,
				GracePeriod:         defaultGracePeriod,
			},
			{
				ID:          "pattern",
				Command:     "ffplay",
				Args:        []string{"-fs", "-an", "-f", "lavfi", "-i", "testsrc=size=800x480:rate=30"},
				GracePeriod: defaultGracePeriod,
			},
		},
	}
}
