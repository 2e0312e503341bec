// Package desktop shows the board in an ebiten window.
//
// The window draws whatever a playback.Player hands it, so the same window
// plays a local engine or watches a session on a running server.
package desktop
