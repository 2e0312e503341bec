package autoplay

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"

	"github.com/wricardo/slide2048/game/engine"
)

// DefaultMaxMoves caps a single game so strategies that never fill the board still end
const DefaultMaxMoves = 5000

// Result is the outcome of one game
type Result struct {
	Game    int           `json:"game"`
	Status  engine.Status `json:"status"`
	Moves   int           `json:"moves"`
	NoOps   int           `json:"no_ops"`
	Frames  int           `json:"frames"`
	Merges  int           `json:"merges"`
	Highest int           `json:"highest"`
}

// Summary aggregates a batch of games
type Summary struct {
	Strategy   string      `json:"strategy"`
	Config     string      `json:"config"`
	Games      int         `json:"games"`
	Wins       int         `json:"wins"`
	Losses     int         `json:"losses"`
	Unfinished int         `json:"unfinished"`
	BestTile   int         `json:"best_tile"`
	AvgMoves   float64     `json:"avg_moves"`
	AvgFrames  float64     `json:"avg_frames"`
	Tiles      map[int]int `json:"highest_tile_counts"`
	Results    []Result    `json:"results"`
}

// Runner plays headless games
type Runner struct {
	config      *engine.GameConfig
	newStrategy func(game int) Strategy
	maxMoves    int
	seed        int64
	workers     int
	verbose     bool
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithMaxMoves caps the moves of each game
func WithMaxMoves(n int) RunnerOption {
	return func(r *Runner) { r.maxMoves = n }
}

// WithSeed makes spawns repeatable. Game i uses seed+i.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) { r.seed = seed }
}

// WithWorkers sets how many games run at once
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// WithVerbose logs every finished game
func WithVerbose(v bool) RunnerOption {
	return func(r *Runner) { r.verbose = v }
}

// NewRunner creates a runner. Each game gets its own strategy from newStrategy.
func NewRunner(config *engine.GameConfig, newStrategy func(game int) Strategy, opts ...RunnerOption) *Runner {
	r := &Runner{
		config:      config,
		newStrategy: newStrategy,
		maxMoves:    DefaultMaxMoves,
		seed:        1,
		workers:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	return r
}

// Play runs game number game to its end or to the move cap
func (r *Runner) Play(ctx context.Context, game int) (Result, error) {
	cfg := *r.config
	eng, err := engine.NewEngine(&cfg, engine.WithRand(rand.New(rand.NewSource(r.seed+int64(game)))))
	if err != nil {
		return Result{}, fmt.Errorf("game %d: %w", game, err)
	}
	strategy := r.newStrategy(game)
	strategy.Reset()

	result := Result{Game: game, Status: engine.StatusContinue}
	state := snapshot(eng)
	for !state.GameOver && result.Moves < r.maxMoves {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dir := strategy.NextMove(state)
		res, err := eng.Move(string(dir))
		if err != nil {
			return result, fmt.Errorf("game %d move %d (%s): %w", game, result.Moves+1, dir, err)
		}
		result.Moves++
		result.Frames += res.Frames
		result.Merges += len(res.Merges)
		if !res.Moved {
			result.NoOps++
		}
		state = snapshot(eng)
	}

	result.Status = state.Status
	result.Highest = state.HighestTile
	return result, nil
}

// Run plays games concurrently and aggregates them in game order
func (r *Runner) Run(ctx context.Context, games int) (*Summary, error) {
	results := make([]Result, games)
	jobs := make(chan int)
	errs := make(chan error, r.workers)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range jobs {
				res, err := r.Play(ctx, game)
				if err != nil {
					errs <- err
					return
				}
				results[game] = res
				if r.verbose {
					log.Printf("[SIM] game=%d status=%s moves=%d highest=%d", game, res.Status, res.Moves, res.Highest)
				}
			}
		}()
	}

	var runErr error
feed:
	for game := 0; game < games; game++ {
		select {
		case jobs <- game:
		case runErr = <-errs:
			break feed
		case <-ctx.Done():
			runErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if runErr == nil {
		select {
		case runErr = <-errs:
		default:
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	return summarize(r.config.Name, r.newStrategy(0).Name(), results), nil
}

// snapshot is GetState without the history copies
func snapshot(eng *engine.GameEngine) *engine.GameState {
	state := &engine.GameState{
		Grid:        eng.Board().Grid(),
		Status:      eng.Status(),
		GameOver:    eng.IsGameOver(),
		Victory:     eng.IsVictory(),
		HighestTile: eng.Board().HighestTile(),
		TileCount:   eng.Board().Len(),
	}
	if !state.GameOver {
		state.PossibleMoves = eng.GetPossibleMoves()
	}
	return state
}

func summarize(config, strategy string, results []Result) *Summary {
	s := &Summary{
		Strategy: strategy,
		Config:   config,
		Games:    len(results),
		Tiles:    map[int]int{},
		Results:  results,
	}
	moves, frames := 0, 0
	for _, res := range results {
		switch res.Status {
		case engine.StatusWin:
			s.Wins++
		case engine.StatusLost:
			s.Losses++
		default:
			s.Unfinished++
		}
		if res.Highest > s.BestTile {
			s.BestTile = res.Highest
		}
		s.Tiles[res.Highest]++
		moves += res.Moves
		frames += res.Frames
	}
	if len(results) > 0 {
		s.AvgMoves = float64(moves) / float64(len(results))
		s.AvgFrames = float64(frames) / float64(len(results))
	}
	return s
}
