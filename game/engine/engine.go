package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	Status() Status

	// Movement operations
	Move(direction string) (*Resolution, error)
	CanMove(direction string) bool
	GetPossibleMoves() []string
	BulkMove(moves []string) ([]*Resolution, error)

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRenderer sets the renderer every frame is drawn to
func WithRenderer(r Renderer) Option {
	return func(e *GameEngine) { e.renderer = r }
}

// WithClock sets the frame pacer
func WithClock(c Clock) Option {
	return func(e *GameEngine) { e.clock = c }
}

// WithRand sets the random source used for spawning
func WithRand(r RandSource) Option {
	return func(e *GameEngine) { e.rng = r }
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config   *GameConfig
	board    *Board
	resolver *Resolver
	renderer Renderer
	clock    Clock
	rng      RandSource

	status  Status
	message string

	moveHistory  []MoveHistoryEntry
	totalMoves   int
	currentMoves []MoveHistoryEntry
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:       config,
		moveHistory:  []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if err := e.newBoard(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic preset
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		// The classic preset always validates
		panic(fmt.Sprintf("default config: %v", err))
	}
	return e
}

func (e *GameEngine) newBoard() error {
	e.board = NewBoard(e.config.Geometry(), e.rng)
	e.resolver = NewResolver(e.config, e.renderer, e.clock)
	if err := e.board.SpawnInitial(); err != nil {
		return fmt.Errorf("initial spawn: %w", err)
	}
	e.status = StatusContinue
	e.message = e.config.Messages.Welcome
	return nil
}

// SetGrid replaces the board with the given values (zero for empty) and resumes play.
// Values must be powers of two of at least 2.
func (e *GameEngine) SetGrid(grid [][]int) error {
	if len(grid) > Rows {
		return fmt.Errorf("%w: %d rows", ErrOutOfBounds, len(grid))
	}
	board := NewBoard(e.config.Geometry(), e.rng)
	for r, row := range grid {
		for c, v := range row {
			if v == 0 {
				continue
			}
			if _, err := board.Place(v, r, c); err != nil {
				return err
			}
		}
	}
	e.board = board
	e.status = StatusContinue
	return nil
}

// Board exposes the live board
func (e *GameEngine) Board() *Board {
	return e.board
}

// SetRenderer swaps the renderer for subsequent moves; nil discards frames
func (e *GameEngine) SetRenderer(r Renderer) {
	e.renderer = r
	e.resolver = NewResolver(e.config, r, e.clock)
}

// SetClock swaps the frame pacer for subsequent moves; nil never blocks
func (e *GameEngine) SetClock(c Clock) {
	e.clock = c
	e.resolver = NewResolver(e.config, e.renderer, c)
}

// GetState returns a snapshot of the current game
func (e *GameEngine) GetState() *GameState {
	history := make([]MoveHistoryEntry, len(e.moveHistory))
	copy(history, e.moveHistory)
	current := make([]MoveHistoryEntry, len(e.currentMoves))
	copy(current, e.currentMoves)

	state := &GameState{
		Grid:              e.board.Grid(),
		Tiles:             e.board.Snapshot(),
		Status:            e.status,
		GameOver:          e.IsGameOver(),
		Victory:           e.IsVictory(),
		Message:           e.message,
		HighestTile:       e.board.HighestTile(),
		TileCount:         e.board.Len(),
		ConfigName:        e.config.Name,
		MoveHistory:       history,
		TotalMoves:        e.totalMoves,
		CurrentMoves:      current,
		CurrentMovesCount: len(current),
	}
	if !state.GameOver {
		state.PossibleMoves = e.GetPossibleMoves()
	}
	return state
}

// Reset starts a fresh board with two tiles
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets; clear only the current segment
	if err := e.newBoard(); err != nil {
		// An empty 16-cell board always has room for two tiles
		panic(err)
	}
	e.currentMoves = []MoveHistoryEntry{}
	return e.GetState()
}

// IsGameOver returns whether the game has ended in either direction
func (e *GameEngine) IsGameOver() bool {
	return e.status != StatusContinue
}

// IsVictory returns whether a 2048 tile was reached
func (e *GameEngine) IsVictory() bool {
	return e.status == StatusWin
}

// Status returns the status of the last resolution
func (e *GameEngine) Status() Status {
	return e.status
}

// Move resolves one directional input
func (e *GameEngine) Move(direction string) (*Resolution, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	if e.IsGameOver() {
		return nil, ErrGameOver
	}

	before := e.board.clone()
	res, err := e.resolver.Resolve(e.board, dir)
	if err != nil {
		e.board = before
		return res, err
	}

	e.status = res.Status
	e.message = e.messageFor(res)
	e.addToHistory(res)
	return res, nil
}

func (e *GameEngine) messageFor(res *Resolution) string {
	m := e.config.Messages
	switch {
	case res.Status == StatusLost:
		return m.Lost
	case res.Status == StatusWin:
		return m.Victory
	case !res.Moved:
		return m.NoMotion
	case len(res.Merges) > 0 && m.Merged != "":
		return fmt.Sprintf(m.Merged, len(res.Merges))
	}
	return ""
}

func (e *GameEngine) addToHistory(res *Resolution) {
	e.totalMoves++
	entry := MoveHistoryEntry{
		Action:      string(res.Direction),
		Status:      res.Status,
		Moved:       res.Moved,
		Frames:      res.Frames,
		Merges:      len(res.Merges),
		Spawned:     res.Spawned,
		HighestTile: e.board.HighestTile(),
		Timestamp:   time.Now().Unix(),
		MoveNumber:  e.totalMoves,
	}
	e.moveHistory = append(e.moveHistory, entry)
	e.currentMoves = append(e.currentMoves, entry)
}

// CanMove reports whether a move in direction would change the board
func (e *GameEngine) CanMove(direction string) bool {
	if e.IsGameOver() {
		return false
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	return e.board.CanShift(dir)
}

// GetPossibleMoves returns every direction that would change the board
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(string(dir)) {
			possible = append(possible, string(dir))
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a new board
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	e.currentMoves = []MoveHistoryEntry{}
	return e.newBoard()
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// BulkMove executes moves in sequence, stopping at the first terminal status.
// Resolutions for the moves that ran are returned alongside any error.
func (e *GameEngine) BulkMove(moves []string) ([]*Resolution, error) {
	results := make([]*Resolution, 0, len(moves))
	for i, direction := range moves {
		if e.IsGameOver() {
			break
		}
		res, err := e.Move(direction)
		if err != nil {
			return results, fmt.Errorf("move %d (%s): %w", i+1, direction, err)
		}
		results = append(results, res)
	}
	return results, nil
}
