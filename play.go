package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/slide2048/game/autoplay"
	"github.com/wricardo/slide2048/game/config"
	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/loop"
	"github.com/wricardo/slide2048/render/desktop"
	"github.com/wricardo/slide2048/render/playback"
	"github.com/wricardo/slide2048/render/sound"
	"github.com/wricardo/slide2048/render/terminal"
)

func presetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "preset",
		Aliases: []string{"p"},
		Value:   "classic",
		Usage:   "Preset name from the config directory",
	}
}

// loadPreset returns a private copy of a preset so callers may adjust it
func loadPreset(configDir, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	preset, err := manager.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	cfg := *preset
	cfg.Palette = append([]string(nil), preset.Palette...)
	return &cfg, nil
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play in the terminal",
		Flags: []cli.Flag{
			presetFlag(),
			&cli.BoolFlag{Name: "sound", Usage: "Play a tone on merges"},
			&cli.FloatFlag{Name: "volume", Value: 0.3, Usage: "Sound volume between 0 and 1"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("preset"))
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(cfg)
			if err != nil {
				return err
			}

			screen, err := terminal.Open(cfg)
			if err != nil {
				return err
			}
			defer screen.Close()
			go screen.Listen()

			// the terminal owns stdout and stderr while playing
			log.SetOutput(io.Discard)
			defer log.SetOutput(os.Stderr)

			opts := []loop.Option{
				loop.WithRenderer(screen),
				loop.WithClock(engine.NewFrameClock()),
				loop.WithAnnouncer(screen),
			}
			if cmd.Bool("sound") {
				chime, err := sound.Open(cmd.Float("volume"))
				if err != nil {
					return err
				}
				opts = append(opts, loop.WithListener(chime))
			}

			return loop.New(eng, screen, opts...).Run(ctx)
		},
	}
}

func desktopCommand() *cli.Command {
	return &cli.Command{
		Name:  "desktop",
		Usage: "Play in a window, or watch a session on a running server",
		Flags: []cli.Flag{
			presetFlag(),
			&cli.StringFlag{Name: "server", Usage: "API server to connect to, e.g. http://localhost:8080"},
			&cli.StringFlag{Name: "session", Usage: "Session ID on the server"},
			&cli.BoolFlag{Name: "sound", Usage: "Play a tone on merges"},
			&cli.FloatFlag{Name: "volume", Value: 0.3, Usage: "Sound volume between 0 and 1"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("preset"))
			if err != nil {
				return err
			}

			var (
				src   playback.Source
				title = AppName
			)
			remoteURL, sessionID := cmd.String("server"), cmd.String("session")
			switch {
			case remoteURL != "" && sessionID != "":
				src = playback.NewRemote(remoteURL, sessionID)
				title = fmt.Sprintf("%s - session %s", AppName, sessionID)
			case remoteURL != "" || sessionID != "":
				return fmt.Errorf("--server and --session must be given together")
			default:
				eng, err := engine.NewEngine(cfg)
				if err != nil {
					return err
				}
				var listeners []loop.Listener
				if cmd.Bool("sound") {
					chime, err := sound.Open(cmd.Float("volume"))
					if err != nil {
						return err
					}
					listeners = append(listeners, chime)
				}
				src = playback.NewLocal(eng, listeners...)
			}

			player, err := playback.NewPlayer(ctx, src)
			if err != nil {
				return err
			}
			if remote, ok := src.(*playback.Remote); ok {
				go func() {
					if err := remote.Watch(ctx, player); err != nil && ctx.Err() == nil {
						log.Printf("Watch stopped: %v", err)
					}
				}()
			}

			window, err := desktop.NewWindow(ctx, player, cfg, title)
			if err != nil {
				return err
			}
			return window.Run()
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Play headless games with a strategy and print statistics",
		Flags: []cli.Flag{
			presetFlag(),
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Value: "greedy", Usage: "corner, greedy, cycle or random"},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 20, Usage: "Number of games"},
			&cli.IntFlag{Name: "seed", Value: int(time.Now().UnixNano() % 1_000_000), Usage: "Base random seed"},
			&cli.IntFlag{Name: "max-moves", Value: autoplay.DefaultMaxMoves, Usage: "Move cap per game"},
			&cli.IntFlag{Name: "workers", Value: 0, Usage: "Concurrent games (0 = one per CPU)"},
			&cli.BoolFlag{Name: "json", Usage: "Print the summary as JSON"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log every game"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("preset"))
			if err != nil {
				return err
			}
			name, seed := cmd.String("strategy"), int64(cmd.Int("seed"))
			if _, err := autoplay.NewStrategy(name, seed); err != nil {
				return err
			}

			opts := []autoplay.RunnerOption{
				autoplay.WithSeed(seed),
				autoplay.WithMaxMoves(cmd.Int("max-moves")),
				autoplay.WithVerbose(cmd.Bool("verbose")),
			}
			if w := cmd.Int("workers"); w > 0 {
				opts = append(opts, autoplay.WithWorkers(w))
			}
			runner := autoplay.NewRunner(cfg, func(game int) autoplay.Strategy {
				s, _ := autoplay.NewStrategy(name, seed+int64(game))
				return s
			}, opts...)

			start := time.Now()
			summary, err := runner.Run(ctx, cmd.Int("games"))
			if err != nil {
				return err
			}
			log.Printf("[SIM] %d games in %s", summary.Games, time.Since(start).Round(time.Millisecond))

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(out, summary)
			return nil
		},
	}
}

func printSummary(w io.Writer, s *autoplay.Summary) {
	fmt.Fprintf(w, "Strategy: %s  Preset: %s\n", s.Strategy, s.Config)
	fmt.Fprintf(w, "Games: %d  Wins: %d  Losses: %d  Unfinished: %d\n", s.Games, s.Wins, s.Losses, s.Unfinished)
	if s.Games > 0 {
		fmt.Fprintf(w, "Win rate: %.1f%%\n", 100*float64(s.Wins)/float64(s.Games))
	}
	fmt.Fprintf(w, "Best tile: %d  Avg moves: %.1f  Avg frames: %.1f\n", s.BestTile, s.AvgMoves, s.AvgFrames)

	tiles := make([]int, 0, len(s.Tiles))
	for tile := range s.Tiles {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))
	fmt.Fprintln(w, "Highest tile reached:")
	for _, tile := range tiles {
		fmt.Fprintf(w, "  %5d  %d\n", tile, s.Tiles[tile])
	}
}
