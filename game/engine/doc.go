// Package engine provides the core game logic for the slide2048 puzzle.
//
// The engine package implements the game mechanics including:
//   - Tiles with continuous pixel positions and grid coordinates
//   - A 4x4 board with random spawning of 2 and 4 tiles
//   - Frame-by-frame move resolution with merge-once semantics
//   - Win and loss detection after every resolution
//   - Preset loading and validation
//
// Core Types:
//
// Board maps cells to tiles. Resolver animates one directional input until
// nothing moves, calling a Clock and a Renderer once per frame. GameEngine wraps
// both with history tracking, and GameConfig is a pacing preset loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.WithClock(engine.NewFrameClock()))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := gameEngine.Move("left")
//
// Game Rules:
//
// Every move slides all tiles toward one edge. Two equal tiles that meet merge
// into one of double the value, and a tile merges at most once per move. After
// the board settles a new 2 or 4 appears. Reaching 2048 wins; a full board loses.
package engine
