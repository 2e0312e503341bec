// Package terminal plays the puzzle in a terminal using tcell.
//
// A Screen is renderer, input source and announcer at once, so a loop can be
// wired with just the screen:
//
//	s, err := terminal.Open(cfg)
//	go s.Listen()
//	defer s.Close()
//	loop.New(eng, s, loop.WithRenderer(s), loop.WithAnnouncer(s)).Run(ctx)
//
// Arrows, wasd and hjkl slide the board. Space or r restarts, q or Esc quits.
package terminal
