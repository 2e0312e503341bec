// Package loop runs an interactive game session.
//
// A Loop polls an InputSource once per frame and resolves each command fully
// before reading the next, so a burst of key presses is replayed in order.
// Terminal and desktop front ends plug in as Renderer, Announcer and
// InputSource; sound and logging attach as Listeners.
package loop
