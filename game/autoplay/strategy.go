package autoplay

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/wricardo/slide2048/game/engine"
)

// Strategy picks the next direction for a game in progress
type Strategy interface {
	Name() string
	NextMove(state *engine.GameState) engine.Direction
	// Reset clears per-game memory before a new game
	Reset()
}

// NewStrategy builds a strategy by name: corner, greedy, cycle or random
func NewStrategy(name string, seed int64) (Strategy, error) {
	switch name {
	case "corner":
		return &CornerStrategy{}, nil
	case "greedy":
		return NewGreedyStrategy(seed), nil
	case "cycle":
		return &CycleStrategy{}, nil
	case "random":
		return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want corner, greedy, cycle or random)", name)
}

// StrategyNames lists the names NewStrategy accepts
var StrategyNames = []string{"corner", "greedy", "cycle", "random"}

// possible returns the state's possible moves as directions
func possible(state *engine.GameState) []engine.Direction {
	out := make([]engine.Direction, 0, len(state.PossibleMoves))
	for _, m := range state.PossibleMoves {
		out = append(out, engine.Direction(m))
	}
	return out
}

// CornerStrategy keeps the highest tile in the top-left corner by preferring left and up
type CornerStrategy struct{}

func (*CornerStrategy) Name() string { return "corner" }
func (*CornerStrategy) Reset()       {}

func (*CornerStrategy) NextMove(state *engine.GameState) engine.Direction {
	moves := possible(state)
	for _, want := range []engine.Direction{engine.Left, engine.Up, engine.Right, engine.Down} {
		for _, m := range moves {
			if m == want {
				return m
			}
		}
	}
	// nothing changes the board; any direction resolves to a no-op
	return engine.Left
}

// CycleStrategy rotates through left, up, right, down regardless of the board
type CycleStrategy struct {
	next int
}

var cycleOrder = []engine.Direction{engine.Left, engine.Up, engine.Right, engine.Down}

func (*CycleStrategy) Name() string { return "cycle" }
func (s *CycleStrategy) Reset()     { s.next = 0 }

func (s *CycleStrategy) NextMove(*engine.GameState) engine.Direction {
	d := cycleOrder[s.next%len(cycleOrder)]
	s.next++
	return d
}

// RandomStrategy picks uniformly among the moves that change the board
type RandomStrategy struct {
	rng *rand.Rand
}

func (*RandomStrategy) Name() string { return "random" }
func (*RandomStrategy) Reset()       {}

func (s *RandomStrategy) NextMove(state *engine.GameState) engine.Direction {
	moves := possible(state)
	if len(moves) == 0 {
		return engine.Directions[s.rng.Intn(len(engine.Directions))]
	}
	return moves[s.rng.Intn(len(moves))]
}

// GreedyStrategy tries every possible move on a scratch engine and keeps the best scoring board
type GreedyStrategy struct {
	seed int64
}

// NewGreedyStrategy creates a one-ply lookahead player
func NewGreedyStrategy(seed int64) *GreedyStrategy {
	return &GreedyStrategy{seed: seed}
}

func (*GreedyStrategy) Name() string { return "greedy" }
func (*GreedyStrategy) Reset()       {}

func (s *GreedyStrategy) NextMove(state *engine.GameState) engine.Direction {
	type candidate struct {
		dir   engine.Direction
		score int
	}
	var candidates []candidate
	for _, dir := range possible(state) {
		grid, merges, ok := s.simulate(state.Grid, dir)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{dir: dir, score: Score(grid, merges)})
	}
	if len(candidates) == 0 {
		return (&CornerStrategy{}).NextMove(state)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	return candidates[0].dir
}

// simulate resolves dir on a copy of grid. The spawn uses a fixed seed so scores are repeatable.
func (s *GreedyStrategy) simulate(grid [][]int, dir engine.Direction) ([][]int, int, bool) {
	cfg := engine.DefaultConfig()
	cfg.LossPolicy = engine.LossNoMoves
	eng, err := engine.NewEngine(cfg, engine.WithRand(rand.New(rand.NewSource(s.seed))))
	if err != nil {
		return nil, 0, false
	}
	if err := eng.SetGrid(grid); err != nil {
		return nil, 0, false
	}
	res, err := eng.Move(string(dir))
	if err != nil {
		return nil, 0, false
	}
	if res.Status == engine.StatusWin {
		return eng.Board().Grid(), len(res.Merges) + 1000, true
	}
	return eng.Board().Grid(), len(res.Merges), true
}

// Score rates a board: room to move and merges count for it, rough neighbours
// and a highest tile away from a corner count against it
func Score(grid [][]int, merges int) int {
	return engine.CountEmpty(grid)*100 +
		merges*50 -
		engine.Smoothness(grid) -
		engine.CornerDistance(grid)*200
}
