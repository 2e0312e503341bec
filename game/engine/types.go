package engine

import "fmt"

const (
	// Grid dimensions are fixed for every preset
	Rows = 4
	Cols = 4

	// WinValue is the tile value that ends the game in victory
	WinValue = 2048

	// Validation constants
	MinCellSize         = 8
	MaxCellSize         = 512
	MinFPS              = 1
	MaxFPS              = 240
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// Direction is one of the four slide directions
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists every direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection converts user input to a Direction
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Left, Right, Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Status is the outcome of a resolution
type Status string

const (
	StatusContinue Status = "continue"
	StatusWin      Status = "win"
	StatusLost     Status = "lost"
)

// Cell is a grid coordinate
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Merge records one merge committed during a resolution
type Merge struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// SpawnInfo describes a spawned tile
type SpawnInfo struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// Resolution is the outcome of one directional input
type Resolution struct {
	Direction Direction  `json:"direction"`
	Status    Status     `json:"status"`
	Frames    int        `json:"frames"`
	Moved     bool       `json:"moved"`
	Merges    []Merge    `json:"merges,omitempty"`
	Spawned   *SpawnInfo `json:"spawned,omitempty"`
}

// GameState is a JSON-friendly snapshot of a game
type GameState struct {
	Grid          [][]int            `json:"grid"`
	Tiles         []Tile             `json:"tiles"`
	Status        Status             `json:"status"`
	GameOver      bool               `json:"game_over"`
	Victory       bool               `json:"victory"`
	Message       string             `json:"message"`
	HighestTile   int                `json:"highest_tile"`
	TileCount     int                `json:"tile_count"`
	ConfigName    string             `json:"config_name"`
	PossibleMoves []string           `json:"possible_moves,omitempty"`
	MoveHistory   []MoveHistoryEntry `json:"move_history"`
	TotalMoves    int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action      string     `json:"action"`
	Status      Status     `json:"status"`
	Moved       bool       `json:"moved"`
	Frames      int        `json:"frames"`
	Merges      int        `json:"merges"`
	Spawned     *SpawnInfo `json:"spawned,omitempty"`
	HighestTile int        `json:"highest_tile"`
	Timestamp   int64      `json:"timestamp"`
	MoveNumber  int        `json:"move_number"`
}
