// Package autoplay plays games without a display.
//
// Strategies:
//   - corner: prefer left, then up, then right, then down
//   - greedy: one move of lookahead scored by free cells, merges, smoothness and corner distance
//   - cycle: left, up, right, down regardless of the board
//   - random: any move that changes the board
//
// A Runner plays a batch of seeded games on a worker pool and summarises
// wins, losses, moves, frames and the highest tile reached.
package autoplay
