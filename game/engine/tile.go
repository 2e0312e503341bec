package engine

import (
	"math"
	"math/bits"
)

// Rounding selects how a continuous position maps back to a grid cell
type Rounding int

const (
	RoundFloor Rounding = iota
	RoundCeil
)

// Geometry holds the pixel size of a cell and the per-frame step
type Geometry struct {
	CellWidth  int `json:"cell_width"`
	CellHeight int `json:"cell_height"`
	Velocity   int `json:"velocity"`
}

// Tile is a numbered block on the board.
// X and Y may drift from Row/Col while a resolution animates.
type Tile struct {
	Value int     `json:"value"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// NewTile creates a tile snapped to its cell
func NewTile(value, row, col int, g Geometry) *Tile {
	return &Tile{
		Value: value,
		Row:   row,
		Col:   col,
		X:     float64(col * g.CellWidth),
		Y:     float64(row * g.CellHeight),
	}
}

// Move shifts the continuous position; Row/Col are untouched
func (t *Tile) Move(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// SyncGridPosition recomputes Row/Col from X/Y
func (t *Tile) SyncGridPosition(mode Rounding, g Geometry) {
	row := t.Y / float64(g.CellHeight)
	col := t.X / float64(g.CellWidth)
	if mode == RoundCeil {
		t.Row, t.Col = int(math.Ceil(row)), int(math.Ceil(col))
		return
	}
	t.Row, t.Col = int(math.Floor(row)), int(math.Floor(col))
}

// Snapped reports whether X/Y sit exactly on the tile's cell
func (t *Tile) Snapped(g Geometry) bool {
	return t.X == float64(t.Col*g.CellWidth) && t.Y == float64(t.Row*g.CellHeight)
}

// Cell returns the grid coordinate of the tile
func (t *Tile) Cell() Cell {
	return Cell{Row: t.Row, Col: t.Col}
}

// ColorIndex returns floor(log2(value))-1 clamped to a palette of n entries
func (t *Tile) ColorIndex(n int) int {
	if n <= 0 || t.Value < 2 {
		return 0
	}
	idx := bits.Len(uint(t.Value)) - 2
	if idx >= n {
		return n - 1
	}
	return idx
}
