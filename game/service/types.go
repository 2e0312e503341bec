package service

import (
	"time"

	"github.com/wricardo/slide2048/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveOptions tweaks a single move
type MoveOptions struct {
	// Reset starts a fresh board before moving
	Reset bool `json:"reset"`
	// Animate records every frame of the resolution into MoveResult.Frames
	Animate bool `json:"animate"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success    bool               `json:"success"`
	GameState  *engine.GameState  `json:"game_state"`
	Message    string             `json:"message"`
	Events     []GameEvent        `json:"events,omitempty"`
	Resolution *engine.Resolution `json:"resolution,omitempty"`
	Frames     [][]engine.Tile    `json:"frames,omitempty"`
	BoardRisk  string             `json:"board_risk,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: victory|lost|game_over|invalid_direction
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartHighest int `json:"start_highest"`
	EndHighest   int `json:"end_highest"`
	TotalMerges  int `json:"total_merges"`
	TotalFrames  int `json:"total_frames"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	GameOverCode  string   `json:"game_over_code,omitempty"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
	BoardRisk     string   `json:"board_risk,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx         int               `json:"idx"`
	Dir         string            `json:"dir"`
	Moved       bool              `json:"moved"`
	Merges      int               `json:"merges"`
	Frames      int               `json:"frames"`
	Spawned     *engine.SpawnInfo `json:"spawned,omitempty"`
	Status      engine.Status     `json:"status"`
	HighestTile int               `json:"highest_tile"`
}

// CellInfo describes one grid cell
type CellInfo struct {
	Row        int            `json:"row"`
	Col        int            `json:"col"`
	Value      int            `json:"value"`
	Empty      bool           `json:"empty"`
	ColorIndex int            `json:"color_index"`
	Color      string         `json:"color"`
	Neighbors  map[string]int `json:"neighbors"`
	CanMerge   []string       `json:"can_merge,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string       `json:"type"` // "move", "no_motion", "merge", "spawn", "victory", "game_over", "reset"
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Cell      *engine.Cell `json:"cell,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a preset
type ConfigInfo struct {
	Filename          string `json:"filename"`
	ConfigID          string `json:"config_id"` // The identifier to use for session creation
	Name              string `json:"name"`      // Display name
	Description       string `json:"description"`
	CellSize          int    `json:"cell_size"`
	Velocity          int    `json:"velocity"`
	FPS               int    `json:"fps"`
	LossPolicy        string `json:"loss_policy"`
	SuppressNoopSpawn bool   `json:"suppress_noop_spawn"`
}
