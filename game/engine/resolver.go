package engine

import (
	"fmt"
	"sort"
)

// Resolver animates one directional input to completion
type Resolver struct {
	geom              Geometry
	fps               int
	lossPolicy        LossPolicy
	suppressNoopSpawn bool
	renderer          Renderer
	clock             Clock
}

// NewResolver creates a resolver for the given preset
func NewResolver(config *GameConfig, renderer Renderer, clock Clock) *Resolver {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if clock == nil {
		clock = NopClock{}
	}
	return &Resolver{
		geom:              config.Geometry(),
		fps:               config.FPS,
		lossPolicy:        config.LossPolicy,
		suppressNoopSpawn: config.SuppressNoopSpawn,
		renderer:          renderer,
		clock:             clock,
	}
}

// maxFrames bounds a single resolution. A tile crosses at most Cols-1 cells and
// every crossing takes cell/velocity frames; the slack covers lagging followers.
func (r *Resolver) maxFrames() int {
	cell := r.geom.CellWidth
	if r.geom.CellHeight > cell {
		cell = r.geom.CellHeight
	}
	return (Rows+Cols)*(cell/r.geom.Velocity)*2 + 8
}

// Resolve slides every tile in dir until nothing moves, then decides the status
// and spawns a tile when the game continues.
func (r *Resolver) Resolve(board *Board, dir Direction) (*Resolution, error) {
	p, ok := policies[dir]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	res := &Resolution{Direction: dir}
	consumed := make(map[*Tile]bool)
	dx, dy := p.step(r.geom)
	limit := r.maxFrames()

	for {
		if res.Frames >= limit {
			return res, fmt.Errorf("%w: %s after %d frames", ErrResolutionStalled, dir, res.Frames)
		}
		r.clock.Tick(r.fps)
		res.Frames++

		tiles := board.Tiles()
		sort.SliceStable(tiles, func(i, j int) bool { return p.less(tiles[i], tiles[j]) })

		removed := make(map[*Tile]bool)
		var moved []*Tile
		for _, t := range tiles {
			cell := t.Cell()
			if p.atBoundary(cell) {
				continue
			}

			n, ok := board.tiles[p.neighbor(cell)]
			if ok && removed[n] {
				ok = false
			}

			switch {
			case !ok:
				t.Move(dx, dy)
				moved = append(moved, t)
			case n.Value == t.Value && !consumed[n] && !consumed[t] && n.Snapped(r.geom):
				if p.mergeGap(t, n, r.geom) {
					t.Move(dx, dy)
					moved = append(moved, t)
					continue
				}
				n.Value *= 2
				consumed[n] = true
				removed[t] = true
				res.Merges = append(res.Merges, Merge{Row: n.Row, Col: n.Col, Value: n.Value})
			case p.slideGap(t, n, r.geom):
				t.Move(dx, dy)
				moved = append(moved, t)
			}
		}

		for _, t := range moved {
			if !removed[t] {
				t.SyncGridPosition(p.rounding, r.geom)
			}
		}

		survivors := tiles[:0]
		for _, t := range tiles {
			if !removed[t] {
				survivors = append(survivors, t)
			}
		}
		if err := board.rebuild(survivors); err != nil {
			return res, err
		}
		r.renderer.Render(board.Snapshot())

		if len(moved) == 0 && len(removed) == 0 {
			break
		}
		res.Moved = true
	}

	return res, r.finish(board, res)
}

// finish decides the status of a settled board and spawns when play continues
func (r *Resolver) finish(board *Board, res *Resolution) error {
	if r.isLost(board) {
		res.Status = StatusLost
		return nil
	}
	if board.HasWinningTile() {
		res.Status = StatusWin
		return nil
	}
	res.Status = StatusContinue
	if r.suppressNoopSpawn && !res.Moved {
		return nil
	}
	if board.Len() == board.Capacity() {
		// Only reachable under LossNoMoves: full but a merge is still available
		return nil
	}

	t, err := board.SpawnTile()
	if err != nil {
		return fmt.Errorf("spawn after %s: %w", res.Direction, err)
	}
	res.Spawned = &SpawnInfo{Row: t.Row, Col: t.Col, Value: t.Value}
	return nil
}

func (r *Resolver) isLost(board *Board) bool {
	if r.lossPolicy == LossNoMoves {
		return board.IsStuck()
	}
	return board.IsLost()
}
