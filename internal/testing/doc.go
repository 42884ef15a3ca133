// Package testing provides shared test doubles for the touchdeck packages.
//
// The supervisor and TUI are tested against a FakeLauncher, which replaces
// real OS processes with hand-driven liveness and exit events, and a
// ScriptedSource, which replays a fixed sequence of decoded touch events.
// Both are deterministic: nothing in here sleeps or spawns.
package testing
