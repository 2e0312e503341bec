package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

// scriptedRand replays fixed values; once exhausted it always returns 0
type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

func testConfig() *GameConfig {
	return DefaultConfig()
}

func newTestBoard(t *testing.T, grid [][]int) *Board {
	t.Helper()
	b := NewBoard(testConfig().Geometry(), &scriptedRand{})
	for r, row := range grid {
		for c, v := range row {
			if v == 0 {
				continue
			}
			if _, err := b.Place(v, r, c); err != nil {
				t.Fatalf("Failed to place %d at (%d, %d): %v", v, r, c, err)
			}
		}
	}
	return b
}

// newTestEngine builds an engine whose board holds exactly grid
func newTestEngine(t *testing.T, config *GameConfig, grid [][]int, opts ...Option) *GameEngine {
	t.Helper()
	if config == nil {
		config = testConfig()
	}
	opts = append([]Option{WithRand(&scriptedRand{})}, opts...)
	eng, err := NewEngine(config, opts...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	board := newTestBoard(t, grid)
	board.rng = eng.rng
	eng.board = board
	return eng
}

func resolve(t *testing.T, config *GameConfig, board *Board, dir Direction) *Resolution {
	t.Helper()
	res, err := NewResolver(config, nil, nil).Resolve(board, dir)
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", dir, err)
	}
	return res
}

func assertSnapped(t *testing.T, b *Board) {
	t.Helper()
	for _, tile := range b.Tiles() {
		if !tile.Snapped(b.Geometry()) {
			t.Errorf("Tile %d at (%d, %d) not snapped: x=%v y=%v", tile.Value, tile.Row, tile.Col, tile.X, tile.Y)
		}
	}
}

func TestResolveMergesPair(t *testing.T) {
	board := newTestBoard(t, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	res := resolve(t, testConfig(), board, Left)

	if res.Status != StatusContinue {
		t.Errorf("Expected continue, got %s", res.Status)
	}
	if !res.Moved {
		t.Error("Expected the resolution to report motion")
	}
	if len(res.Merges) != 1 || res.Merges[0] != (Merge{Row: 0, Col: 0, Value: 4}) {
		t.Errorf("Expected one merge into (0,0)=4, got %+v", res.Merges)
	}
	// Nine steps of 20px, the merge frame and the final still frame
	if res.Frames != 11 {
		t.Errorf("Expected 11 frames, got %d", res.Frames)
	}
	if res.Spawned == nil {
		t.Fatal("Expected a spawned tile")
	}

	// The scripted source picks the first empty cell and value 2
	want := []int{4, 2, 0, 0}
	if got := board.Grid()[0]; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected row %v, got %v", want, got)
	}
	if board.Len() != 2 {
		t.Errorf("Expected 2 tiles, got %d", board.Len())
	}
	assertSnapped(t, board)
}

func TestResolveMergesOncePerResolution(t *testing.T) {
	tests := []struct {
		name   string
		row    []int
		dir    Direction
		want   []int
		merges int
	}{
		{"four equal left", []int{2, 2, 2, 2}, Left, []int{4, 4}, 2},
		{"merged tile does not remerge", []int{2, 2, 4, 0}, Left, []int{4, 4}, 1},
		{"gap then pair", []int{2, 0, 2, 0}, Left, []int{4}, 1},
		{"four equal right", []int{2, 2, 2, 2}, Right, []int{0, 0, 4, 4}, 2},
		{"pair right", []int{0, 0, 2, 2}, Right, []int{0, 0, 0, 4}, 1},
		{"three equal left", []int{4, 4, 4, 0}, Left, []int{8, 4}, 1},
		{"no pair slides", []int{0, 2, 0, 4}, Left, []int{2, 4}, 0},
		{"two pairs left", []int{2, 2, 4, 4}, Left, []int{4, 8}, 2},
		{"two pairs swapped left", []int{4, 4, 2, 2}, Left, []int{8, 4}, 2},
		{"two pairs right", []int{2, 2, 4, 4}, Right, []int{0, 0, 4, 8}, 2},
		{"two pairs swapped right", []int{4, 4, 2, 2}, Right, []int{0, 0, 8, 4}, 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board := newTestBoard(t, [][]int{
				test.row,
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			})
			config := testConfig()
			config.SuppressNoopSpawn = true

			res := resolve(t, config, board, test.dir)
			if len(res.Merges) != test.merges {
				t.Errorf("Expected %d merges, got %d", test.merges, len(res.Merges))
			}

			// Compare only the slid row, ignoring the spawned tile elsewhere
			got := board.Grid()[0]
			if res.Spawned != nil && res.Spawned.Row == 0 {
				got[res.Spawned.Col] = 0
			}
			for i, v := range test.want {
				if got[i] != v {
					t.Errorf("Expected row prefix %v, got %v", test.want, got)
					break
				}
			}
			for i := len(test.want); i < Cols; i++ {
				if got[i] != 0 {
					t.Errorf("Expected row prefix %v then zeros, got %v", test.want, got)
					break
				}
			}
			assertSnapped(t, board)
		})
	}
}

func TestResolveVertical(t *testing.T) {
	board := newTestBoard(t, [][]int{
		{0, 0, 0, 8},
		{2, 0, 0, 0},
		{0, 0, 0, 8},
		{2, 0, 0, 0},
	})
	config := testConfig()

	res := resolve(t, config, board, Up)
	if len(res.Merges) != 2 {
		t.Fatalf("Expected 2 merges, got %+v", res.Merges)
	}
	if board.At(0, 0) == nil || board.At(0, 0).Value != 4 {
		t.Errorf("Expected 4 at (0,0), got %+v", board.At(0, 0))
	}
	if board.At(0, 3) == nil || board.At(0, 3).Value != 16 {
		t.Errorf("Expected 16 at (0,3), got %+v", board.At(0, 3))
	}
	assertSnapped(t, board)

	res = resolve(t, config, board, Down)
	if !res.Moved {
		t.Error("Expected tiles to move down")
	}
	if board.At(3, 0) == nil || board.At(3, 0).Value != 4 {
		t.Errorf("Expected 4 at (3,0), got %+v", board.At(3, 0))
	}
	if board.At(3, 3) == nil || board.At(3, 3).Value != 16 {
		t.Errorf("Expected 16 at (3,3), got %+v", board.At(3, 3))
	}
	assertSnapped(t, board)
}

func TestResolveNoMotion(t *testing.T) {
	grid := [][]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	t.Run("spawns by default", func(t *testing.T) {
		board := newTestBoard(t, grid)
		res := resolve(t, testConfig(), board, Left)
		if res.Moved {
			t.Error("Expected no motion")
		}
		if res.Frames != 1 {
			t.Errorf("Expected a single frame, got %d", res.Frames)
		}
		if res.Spawned == nil || board.Len() != 3 {
			t.Errorf("Expected a spawn after a no-op move, got %d tiles", board.Len())
		}
	})

	t.Run("suppressed", func(t *testing.T) {
		board := newTestBoard(t, grid)
		config := testConfig()
		config.SuppressNoopSpawn = true
		res := resolve(t, config, board, Left)
		if res.Spawned != nil || board.Len() != 2 {
			t.Errorf("Expected no spawn, got %d tiles", board.Len())
		}
		if res.Status != StatusContinue {
			t.Errorf("Expected continue, got %s", res.Status)
		}
	})
}

func TestResolveLossPolicies(t *testing.T) {
	// Full board: no horizontal pairs, but every column is a vertical pair run
	grid := [][]int{
		{2, 4, 2, 4},
		{2, 4, 2, 4},
		{8, 16, 8, 16},
		{8, 16, 8, 16},
	}

	t.Run("board full loses", func(t *testing.T) {
		board := newTestBoard(t, grid)
		res := resolve(t, testConfig(), board, Left)
		if res.Status != StatusLost {
			t.Errorf("Expected lost, got %s", res.Status)
		}
		if res.Spawned != nil {
			t.Error("Expected no spawn on a lost board")
		}
	})

	t.Run("no moves continues without spawning", func(t *testing.T) {
		board := newTestBoard(t, grid)
		config := testConfig()
		config.LossPolicy = LossNoMoves
		res := resolve(t, config, board, Left)
		if res.Status != StatusContinue {
			t.Errorf("Expected continue, got %s", res.Status)
		}
		if res.Spawned != nil {
			t.Error("Expected no spawn on a full board")
		}
	})

	t.Run("no moves loses when stuck", func(t *testing.T) {
		board := newTestBoard(t, [][]int{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		})
		config := testConfig()
		config.LossPolicy = LossNoMoves
		res := resolve(t, config, board, Up)
		if res.Status != StatusLost {
			t.Errorf("Expected lost, got %s", res.Status)
		}
	})
}

func TestResolveWin(t *testing.T) {
	board := newTestBoard(t, [][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	res := resolve(t, testConfig(), board, Left)
	if res.Status != StatusWin {
		t.Errorf("Expected win, got %s", res.Status)
	}
	if res.Spawned != nil {
		t.Error("Expected no spawn after a win")
	}
	if board.Len() != 1 || board.At(0, 0).Value != 2048 {
		t.Errorf("Expected a single 2048 tile, got %v", board.Grid())
	}
}

func TestResolveRendersEveryFrame(t *testing.T) {
	board := newTestBoard(t, [][]int{
		{0, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	recorder := NewFrameRecorder(nil)
	clock := &countingClock{}

	res, err := NewResolver(testConfig(), recorder, clock).Resolve(board, Left)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	frames := recorder.Frames()
	if len(frames) != res.Frames {
		t.Errorf("Expected %d rendered frames, got %d", res.Frames, len(frames))
	}
	if clock.ticks != res.Frames {
		t.Errorf("Expected %d ticks, got %d", res.Frames, clock.ticks)
	}
	if clock.lastFPS != 60 {
		t.Errorf("Expected ticks at 60 fps, got %d", clock.lastFPS)
	}

	// 600px at 20px per frame plus the final still frame
	if res.Frames != 31 {
		t.Errorf("Expected 31 frames, got %d", res.Frames)
	}
	if frames[0][0].X != 580 {
		t.Errorf("Expected first frame at x=580, got %v", frames[0][0].X)
	}
}

func TestResolveInvalidDirection(t *testing.T) {
	board := newTestBoard(t, [][]int{{2, 0, 0, 0}})
	_, err := NewResolver(testConfig(), nil, nil).Resolve(board, Direction("sideways"))
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

// slideLine is the plain 2048 rule for one line ordered from the target edge:
// compact, merge each equal pair once, compact again.
func slideLine(line []int) []int {
	var vals []int
	for _, v := range line {
		if v != 0 {
			vals = append(vals, v)
		}
	}
	out := make([]int, len(line))
	n := 0
	for i := 0; i < len(vals); i++ {
		if i+1 < len(vals) && vals[i] == vals[i+1] {
			out[n] = vals[i] * 2
			i++
		} else {
			out[n] = vals[i]
		}
		n++
	}
	return out
}

// slideGrid applies slideLine to every row or column of grid in dir
func slideGrid(grid [][]int, dir Direction) [][]int {
	out := make([][]int, Rows)
	for r := range out {
		out[r] = make([]int, Cols)
	}
	for i := 0; i < Rows; i++ {
		line := make([]int, Cols)
		for j := 0; j < Cols; j++ {
			r, c := lineCell(dir, i, j)
			line[j] = grid[r][c]
		}
		for j, v := range slideLine(line) {
			r, c := lineCell(dir, i, j)
			out[r][c] = v
		}
	}
	return out
}

// lineCell maps position j of line i, counted from the edge dir slides toward, to a grid cell
func lineCell(dir Direction, i, j int) (int, int) {
	switch dir {
	case Right:
		return i, Cols - 1 - j
	case Up:
		return j, i
	case Down:
		return Rows - 1 - j, i
	}
	return i, j
}

func TestResolveMatchesLineSlide(t *testing.T) {
	lines := [][]int{
		{2, 2, 4, 4},
		{4, 4, 2, 2},
		{2, 2, 2, 2},
		{2, 4, 4, 2},
		{8, 0, 8, 8},
		{2, 2, 0, 4},
		{0, 4, 4, 4},
		{16, 16, 16, 0},
	}

	for _, dir := range Directions {
		for _, line := range lines {
			grid := make([][]int, Rows)
			for r := range grid {
				grid[r] = make([]int, Cols)
			}
			for j, v := range line {
				r, c := lineCell(dir, 1, j)
				grid[r][c] = v
			}

			t.Run(fmt.Sprintf("%s %v", dir, line), func(t *testing.T) {
				board := newTestBoard(t, grid)
				config := testConfig()
				config.SuppressNoopSpawn = true

				res := resolve(t, config, board, dir)
				got := board.Grid()
				if res.Spawned != nil {
					got[res.Spawned.Row][res.Spawned.Col] = 0
				}
				if want := slideGrid(grid, dir); !reflect.DeepEqual(got, want) {
					t.Errorf("Expected %v, got %v", want, got)
				}
				assertSnapped(t, board)
			})
		}
	}
}

func TestResolveRandomPlayKeepsInvariants(t *testing.T) {
	seeds := 25
	if testing.Short() {
		seeds = 3
	}

	for _, velocity := range []int{10, 20, 40, 100, 200} {
		for seed := 0; seed < seeds; seed++ {
			config := testConfig()
			config.Velocity = velocity
			config.LossPolicy = LossNoMoves
			rng := rand.New(rand.NewSource(int64(velocity*1000 + seed)))
			board := NewBoard(config.Geometry(), rng)
			if err := board.SpawnInitial(); err != nil {
				t.Fatalf("SpawnInitial failed: %v", err)
			}
			resolver := NewResolver(config, nil, nil)

			for i := 0; i < 300; i++ {
				dir := Directions[rng.Intn(len(Directions))]
				before := board.Grid()
				count := board.Len()
				res, err := resolver.Resolve(board, dir)
				if err != nil {
					t.Fatalf("velocity %d seed %d move %d (%s) on %v: %v", velocity, seed, i, dir, before, err)
				}
				assertSnapped(t, board)

				got := board.Grid()
				spawned := 0
				if res.Spawned != nil {
					spawned = 1
					got[res.Spawned.Row][res.Spawned.Col] = 0
				}
				want := slideGrid(before, dir)
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("velocity %d seed %d move %d (%s) on %v: expected %v, got %v",
						velocity, seed, i, dir, before, want, got)
				}
				if res.Moved != !reflect.DeepEqual(before, want) {
					t.Fatalf("velocity %d seed %d move %d: Moved=%t for %v -> %v", velocity, seed, i, res.Moved, before, want)
				}
				if board.Len() != count-len(res.Merges)+spawned {
					t.Fatalf("Tile count mismatch: before=%d merges=%d spawned=%d after=%d",
						count, len(res.Merges), spawned, board.Len())
				}
				if res.Status != StatusContinue {
					break
				}
			}
		}
	}
}

type countingClock struct {
	ticks   int
	lastFPS int
}

func (c *countingClock) Tick(fps int) time.Duration {
	c.ticks++
	c.lastFPS = fps
	return 0
}
