// Package playback turns resolutions into a queue of frames for displays
// that draw at a fixed rate.
//
// A Source runs commands. Local records frames from an in-process engine;
// Remote talks to the REST API and, while watching, receives every change
// to the session over the WebSocket.
package playback
