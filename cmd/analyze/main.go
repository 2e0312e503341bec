// Command analyze prints quick, human-readable heuristics about the presets
// in the project's configs directory: board size and pacing, how many frames
// a slide takes, and how often a strategy wins a short batch of games.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/slide2048/game/autoplay"
	"github.com/wricardo/slide2048/game/engine"
)

// Analysis summarizes one preset
type Analysis struct {
	Name          string
	File          string
	BoardWidth    int
	BoardHeight   int
	FramesPerCell int
	SlideFrames   int
	SlideMillis   int
	LossPolicy    engine.LossPolicy
	NoopSpawn     bool
	Summary       *autoplay.Summary
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Summarize pacing and difficulty of every preset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "Preset directory"},
			&cli.StringFlag{Name: "strategy", Value: "corner", Usage: "Strategy used to measure difficulty"},
			&cli.IntFlag{Name: "games", Value: 50, Usage: "Games per preset (0 skips the simulation)"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Base random seed"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no presets found in %s", cmd.String("dir"))
			}
			sort.Strings(files)

			for _, file := range files {
				a, err := analyzeConfig(ctx, file, cmd.String("strategy"), cmd.Int("games"), int64(cmd.Int("seed")))
				if err != nil {
					fmt.Fprintf(cmd.Writer, "\n=== %s ===\nError: %v\n", filepath.Base(file), err)
					continue
				}
				printAnalysis(cmd.Writer, a)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// analyzeConfig loads a preset and, when games > 0, plays a batch with the named strategy
func analyzeConfig(ctx context.Context, path, strategy string, games int, seed int64) (*Analysis, error) {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return nil, err
	}
	if _, err := autoplay.NewStrategy(strategy, seed); err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:          config.Name,
		File:          filepath.Base(path),
		BoardWidth:    engine.Cols * config.CellWidth,
		BoardHeight:   engine.Rows * config.CellHeight,
		FramesPerCell: config.CellWidth / config.Velocity,
		LossPolicy:    config.LossPolicy,
		NoopSpawn:     !config.SuppressNoopSpawn,
	}
	if h := config.CellHeight / config.Velocity; h > a.FramesPerCell {
		a.FramesPerCell = h
	}
	a.SlideFrames = (engine.Cols - 1) * a.FramesPerCell
	a.SlideMillis = a.SlideFrames * 1000 / config.FPS

	if games > 0 {
		runner := autoplay.NewRunner(config, func(game int) autoplay.Strategy {
			s, _ := autoplay.NewStrategy(strategy, seed+int64(game))
			return s
		}, autoplay.WithSeed(seed))
		a.Summary, err = runner.Run(ctx, games)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.File)
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Board: %d x %d px\n", a.BoardWidth, a.BoardHeight)
	fmt.Fprintf(w, "Frames per cell: %d\n", a.FramesPerCell)
	fmt.Fprintf(w, "Longest slide: %d frames (%d ms)\n", a.SlideFrames, a.SlideMillis)
	fmt.Fprintf(w, "Loss policy: %s\n", a.LossPolicy)
	fmt.Fprintf(w, "Spawn after no-op moves: %t\n", a.NoopSpawn)

	s := a.Summary
	if s == nil {
		return
	}
	fmt.Fprintf(w, "%s strategy over %d games: %d wins, %d losses, %d unfinished\n",
		s.Strategy, s.Games, s.Wins, s.Losses, s.Unfinished)
	fmt.Fprintf(w, "Best tile: %d  Avg moves: %.1f\n", s.BestTile, s.AvgMoves)

	switch {
	case s.Games == 0:
	case s.Wins == 0 && s.BestTile < engine.WinValue/4:
		fmt.Fprintf(w, "⚠️  WARNING: no game got past %d\n", s.BestTile)
	case s.Wins*2 > s.Games:
		fmt.Fprintf(w, "✅ Won %s of games\n", percent(s.Wins, s.Games))
	default:
		fmt.Fprintf(w, "Won %s of games\n", percent(s.Wins, s.Games))
	}
}

func percent(n, of int) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", 100*float64(n)/float64(of)), ".0") + "%"
}
