package engine

import (
	"errors"
	"fmt"
)

var (
	ErrBoardFull         = errors.New("board full")
	ErrGameOver          = errors.New("game is over")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrTileOverlap       = errors.New("two tiles share a cell")
	ErrResolutionStalled = errors.New("resolution did not settle")
	ErrCellOccupied      = errors.New("cell occupied")
	ErrOutOfBounds       = errors.New("cell out of bounds")
	ErrInvalidValue      = errors.New("tile value must be a power of two of at least 2")
)

// BoardFullError is returned when a spawn finds no empty cell.
// Callers check for a lost game first, so seeing it means an invariant broke.
type BoardFullError struct {
	Occupied int
	Capacity int
}

func (e *BoardFullError) Error() string {
	return fmt.Sprintf("board full: %d/%d cells occupied", e.Occupied, e.Capacity)
}

// Is lets errors.Is(err, ErrBoardFull) match
func (e *BoardFullError) Is(target error) bool {
	return target == ErrBoardFull
}
