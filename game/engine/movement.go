package engine

// movePolicy holds everything that differs between the four directions
type movePolicy struct {
	dx, dy     float64
	rounding   Rounding
	less       func(a, b *Tile) bool
	atBoundary func(c Cell) bool
	neighbor   func(c Cell) Cell

	// mergeGap is true while the mover must keep stepping toward an equal neighbor
	mergeGap func(t, n *Tile, g Geometry) bool
	// slideGap is true while there is room to step toward an unequal neighbor
	slideGap func(t, n *Tile, g Geometry) bool
}

var policies = map[Direction]movePolicy{
	Left: {
		dx:         -1,
		rounding:   RoundCeil,
		less:       func(a, b *Tile) bool { return a.Col < b.Col },
		atBoundary: func(c Cell) bool { return c.Col == 0 },
		neighbor:   func(c Cell) Cell { return Cell{Row: c.Row, Col: c.Col - 1} },
		mergeGap: func(t, n *Tile, g Geometry) bool {
			return t.X > n.X+float64(g.Velocity)
		},
		slideGap: func(t, n *Tile, g Geometry) bool {
			return t.X > n.X+float64(g.Velocity+g.CellWidth)
		},
	},
	Right: {
		dx:         1,
		rounding:   RoundFloor,
		less:       func(a, b *Tile) bool { return a.Col > b.Col },
		atBoundary: func(c Cell) bool { return c.Col == Cols-1 },
		neighbor:   func(c Cell) Cell { return Cell{Row: c.Row, Col: c.Col + 1} },
		mergeGap: func(t, n *Tile, g Geometry) bool {
			return t.X < n.X-float64(g.Velocity)
		},
		slideGap: func(t, n *Tile, g Geometry) bool {
			return t.X+float64(g.CellWidth+g.Velocity) < n.X
		},
	},
	Up: {
		dy:         -1,
		rounding:   RoundCeil,
		less:       func(a, b *Tile) bool { return a.Row < b.Row },
		atBoundary: func(c Cell) bool { return c.Row == 0 },
		neighbor:   func(c Cell) Cell { return Cell{Row: c.Row - 1, Col: c.Col} },
		mergeGap: func(t, n *Tile, g Geometry) bool {
			return t.Y > n.Y+float64(g.Velocity)
		},
		slideGap: func(t, n *Tile, g Geometry) bool {
			return t.Y > n.Y+float64(g.Velocity+g.CellHeight)
		},
	},
	Down: {
		dy:         1,
		rounding:   RoundFloor,
		less:       func(a, b *Tile) bool { return a.Row > b.Row },
		atBoundary: func(c Cell) bool { return c.Row == Rows-1 },
		neighbor:   func(c Cell) Cell { return Cell{Row: c.Row + 1, Col: c.Col} },
		mergeGap: func(t, n *Tile, g Geometry) bool {
			return t.Y < n.Y-float64(g.Velocity)
		},
		slideGap: func(t, n *Tile, g Geometry) bool {
			return t.Y+float64(g.CellHeight+g.Velocity) < n.Y
		},
	},
}

// step returns the per-frame offset for the policy
func (p movePolicy) step(g Geometry) (float64, float64) {
	v := float64(g.Velocity)
	return p.dx * v, p.dy * v
}
