package engine

import (
	"fmt"
	"sort"
)

// RandSource is the randomness the board draws from. *math/rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Board maps grid cells to tiles
type Board struct {
	tiles map[Cell]*Tile
	geom  Geometry
	rng   RandSource
}

// NewBoard creates an empty board
func NewBoard(geom Geometry, rng RandSource) *Board {
	return &Board{
		tiles: make(map[Cell]*Tile, Rows*Cols),
		geom:  geom,
		rng:   rng,
	}
}

// Capacity returns the number of cells on the board
func (b *Board) Capacity() int {
	return Rows * Cols
}

// Len returns the number of occupied cells
func (b *Board) Len() int {
	return len(b.tiles)
}

// Geometry returns the board's pixel geometry
func (b *Board) Geometry() Geometry {
	return b.geom
}

// At returns the tile at (row, col), or nil
func (b *Board) At(row, col int) *Tile {
	return b.tiles[Cell{Row: row, Col: col}]
}

// Place puts a new tile on an empty cell
func (b *Board) Place(value, row, col int) (*Tile, error) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, row, col)
	}
	if value < 2 || value&(value-1) != 0 {
		return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrInvalidValue, value, row, col)
	}
	cell := Cell{Row: row, Col: col}
	if _, ok := b.tiles[cell]; ok {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, row, col)
	}
	t := NewTile(value, row, col, b.geom)
	b.tiles[cell] = t
	return t, nil
}

// EmptyCells returns every unoccupied cell in row-major order
func (b *Board) EmptyCells() []Cell {
	var cells []Cell
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if _, ok := b.tiles[Cell{Row: r, Col: c}]; !ok {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// RandomEmptyCell picks an unoccupied cell uniformly at random
func (b *Board) RandomEmptyCell() (Cell, error) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, &BoardFullError{Occupied: b.Len(), Capacity: b.Capacity()}
	}
	return empty[b.rng.Intn(len(empty))], nil
}

// SpawnTile places a 2 or a 4 on a random empty cell
func (b *Board) SpawnTile() (*Tile, error) {
	cell, err := b.RandomEmptyCell()
	if err != nil {
		return nil, err
	}
	value := 2
	if b.rng.Intn(2) == 1 {
		value = 4
	}
	return b.Place(value, cell.Row, cell.Col)
}

// SpawnInitial places the two opening tiles, both valued 2
func (b *Board) SpawnInitial() error {
	for i := 0; i < 2; i++ {
		cell, err := b.RandomEmptyCell()
		if err != nil {
			return err
		}
		if _, err := b.Place(2, cell.Row, cell.Col); err != nil {
			return err
		}
	}
	return nil
}

// IsLost reports a lost game under the simplified policy: every cell is occupied.
// A full board may still have merges available; see IsStuck for the strict check.
func (b *Board) IsLost() bool {
	return b.Len() == b.Capacity()
}

// IsStuck reports a full board with no adjacent equal pair
func (b *Board) IsStuck() bool {
	return b.IsLost() && !b.HasAvailableMerge()
}

// HasAvailableMerge reports whether any two orthogonally adjacent tiles share a value
func (b *Board) HasAvailableMerge() bool {
	for cell, t := range b.tiles {
		if n, ok := b.tiles[Cell{Row: cell.Row, Col: cell.Col + 1}]; ok && n.Value == t.Value {
			return true
		}
		if n, ok := b.tiles[Cell{Row: cell.Row + 1, Col: cell.Col}]; ok && n.Value == t.Value {
			return true
		}
	}
	return false
}

// CanShift reports whether a move in dir would change the board
func (b *Board) CanShift(dir Direction) bool {
	p, ok := policies[dir]
	if !ok {
		return false
	}
	for cell, t := range b.tiles {
		if p.atBoundary(cell) {
			continue
		}
		n, ok := b.tiles[p.neighbor(cell)]
		if !ok || n.Value == t.Value {
			return true
		}
	}
	return false
}

// HasWinningTile reports whether any tile reached the win value
func (b *Board) HasWinningTile() bool {
	for _, t := range b.tiles {
		if t.Value >= WinValue {
			return true
		}
	}
	return false
}

// HighestTile returns the largest tile value on the board
func (b *Board) HighestTile() int {
	high := 0
	for _, t := range b.tiles {
		if t.Value > high {
			high = t.Value
		}
	}
	return high
}

// Tiles returns the live tiles in row-major order
func (b *Board) Tiles() []*Tile {
	out := make([]*Tile, 0, len(b.tiles))
	for _, t := range b.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Snapshot returns copies of the tiles in row-major order
func (b *Board) Snapshot() []Tile {
	tiles := b.Tiles()
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		out[i] = *t
	}
	return out
}

// Grid returns tile values as rows of columns, zero for empty cells
func (b *Board) Grid() [][]int {
	grid := make([][]int, Rows)
	for r := range grid {
		grid[r] = make([]int, Cols)
	}
	for cell, t := range b.tiles {
		grid[cell.Row][cell.Col] = t.Value
	}
	return grid
}

// rebuild replaces the cell map from the given tiles keyed by their Row/Col
func (b *Board) rebuild(tiles []*Tile) error {
	next := make(map[Cell]*Tile, len(tiles))
	for _, t := range tiles {
		cell := t.Cell()
		if other, ok := next[cell]; ok {
			return fmt.Errorf("%w: (%d, %d) holds %d and %d", ErrTileOverlap, cell.Row, cell.Col, other.Value, t.Value)
		}
		next[cell] = t
	}
	b.tiles = next
	return nil
}

// clone deep-copies the tiles so a failed resolution can be rolled back
func (b *Board) clone() *Board {
	c := &Board{geom: b.geom, rng: b.rng, tiles: make(map[Cell]*Tile, len(b.tiles))}
	for cell, t := range b.tiles {
		dup := *t
		c.tiles[cell] = &dup
	}
	return c
}
