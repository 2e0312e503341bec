package loop

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/wricardo/slide2048/game/engine"
)

// scriptedInput returns one batch per poll and then quits
type scriptedInput struct {
	batches [][]Command
	polls   int
}

func (s *scriptedInput) Poll() []Command {
	s.polls++
	if len(s.batches) == 0 {
		return []Command{CmdQuit}
	}
	next := s.batches[0]
	s.batches = s.batches[1:]
	return next
}

type recordingRenderer struct {
	frames int
}

func (r *recordingRenderer) Render([]engine.Tile) { r.frames++ }

type recordingAnnouncer struct {
	statuses []engine.Status
	messages []string
}

func (a *recordingAnnouncer) Announce(status engine.Status, message string) {
	a.statuses = append(a.statuses, status)
	a.messages = append(a.messages, message)
}

func newTestEngine(t *testing.T, grid [][]int) *engine.GameEngine {
	t.Helper()
	eng, err := engine.NewEngine(engine.DefaultConfig(), engine.WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if grid != nil {
		if err := eng.SetGrid(grid); err != nil {
			t.Fatalf("Failed to set grid: %v", err)
		}
	}
	return eng
}

func TestRunQuits(t *testing.T) {
	eng := newTestEngine(t, nil)
	renderer := &recordingRenderer{}
	input := &scriptedInput{}

	if err := New(eng, input, WithRenderer(renderer)).Run(context.Background()); err != nil {
		t.Fatalf("Expected nil on quit, got %v", err)
	}
	if input.polls != 1 {
		t.Errorf("Expected a single poll, got %d", input.polls)
	}
	if renderer.frames != 1 {
		t.Errorf("Expected only the opening frame, got %d", renderer.frames)
	}
}

func TestRunProcessesCommandsInOrder(t *testing.T) {
	eng := newTestEngine(t, [][]int{{2, 0, 0, 0}})
	var seen []engine.Direction
	input := &scriptedInput{batches: [][]Command{
		{CmdRight, CmdDown, CmdLeft},
		{CmdUp},
	}}

	err := New(eng, input, WithListener(ListenerFunc(func(res *engine.Resolution) {
		seen = append(seen, res.Direction)
	}))).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []engine.Direction{engine.Right, engine.Down, engine.Left, engine.Up}
	if len(seen) != len(want) {
		t.Fatalf("Expected %d resolutions, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Resolution %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
	if eng.GetState().TotalMoves != 4 {
		t.Errorf("Expected 4 moves, got %d", eng.GetState().TotalMoves)
	}
}

func TestRunRendersAnimationFrames(t *testing.T) {
	eng := newTestEngine(t, [][]int{{0, 0, 0, 2}})
	renderer := &recordingRenderer{}
	var frames int
	input := &scriptedInput{batches: [][]Command{{CmdLeft}}}

	err := New(eng, input, WithRenderer(renderer), WithListener(ListenerFunc(func(res *engine.Resolution) {
		frames = res.Frames
	}))).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Opening frame, the animation, then one idle frame after the batch
	if renderer.frames != frames+2 {
		t.Errorf("Expected %d frames, got %d", frames+2, renderer.frames)
	}
}

func TestRunAnnouncesAndIgnoresMovesUntilRestart(t *testing.T) {
	eng := newTestEngine(t, [][]int{{1024, 1024, 0, 0}})
	announcer := &recordingAnnouncer{}
	var resolutions int
	input := &scriptedInput{batches: [][]Command{
		{CmdLeft, CmdRight, CmdDown},
		{CmdRestart},
		{CmdLeft},
	}}

	err := New(eng, input,
		WithAnnouncer(announcer),
		WithListener(ListenerFunc(func(*engine.Resolution) { resolutions++ })),
	).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(announcer.statuses) != 1 || announcer.statuses[0] != engine.StatusWin {
		t.Fatalf("Expected a single win announcement, got %v", announcer.statuses)
	}
	if announcer.messages[0] != engine.DefaultConfig().Messages.Victory {
		t.Errorf("Unexpected announcement %q", announcer.messages[0])
	}

	// The winning move and the move after restart; the two in between are ignored
	if resolutions != 2 {
		t.Errorf("Expected 2 resolutions, got %d", resolutions)
	}
	if eng.IsGameOver() {
		t.Error("Expected the restarted game to be in progress")
	}
}

func TestRunAnnouncesLoss(t *testing.T) {
	eng := newTestEngine(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	announcer := &recordingAnnouncer{}
	input := &scriptedInput{batches: [][]Command{{CmdUp}}}

	if err := New(eng, input, WithAnnouncer(announcer)).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(announcer.statuses) != 1 || announcer.statuses[0] != engine.StatusLost {
		t.Errorf("Expected a loss announcement, got %v", announcer.statuses)
	}
}

// screenLog records renders and announcements in call order
type screenLog struct {
	events []string
}

func (s *screenLog) Render([]engine.Tile) { s.events = append(s.events, "render") }

func (s *screenLog) Announce(status engine.Status, _ string) {
	s.events = append(s.events, "announce "+string(status))
}

func TestRunRendersAnnouncementBeforeQuit(t *testing.T) {
	eng := newTestEngine(t, [][]int{{0, 0, 1024, 1024}})
	screen := &screenLog{}
	input := &scriptedInput{batches: [][]Command{{CmdLeft, CmdQuit}}}

	if err := New(eng, input, WithRenderer(screen), WithAnnouncer(screen)).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	last := -1
	for i, ev := range screen.events {
		if ev == "announce win" {
			last = i
		}
	}
	if last < 0 {
		t.Fatalf("Expected a win announcement, got %v", screen.events)
	}
	if last == len(screen.events)-1 || screen.events[len(screen.events)-1] != "render" {
		t.Errorf("Expected a render after the announcement, got %v", screen.events[last:])
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(eng, &scriptedInput{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCommandDirection(t *testing.T) {
	tests := []struct {
		cmd  Command
		dir  engine.Direction
		ok   bool
		name string
	}{
		{CmdLeft, engine.Left, true, "left"},
		{CmdRight, engine.Right, true, "right"},
		{CmdUp, engine.Up, true, "up"},
		{CmdDown, engine.Down, true, "down"},
		{CmdRestart, "", false, "restart"},
		{CmdQuit, "", false, "quit"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir, ok := test.cmd.Direction()
			if dir != test.dir || ok != test.ok {
				t.Errorf("Expected (%s, %v), got (%s, %v)", test.dir, test.ok, dir, ok)
			}
			if test.cmd.String() != test.name {
				t.Errorf("Expected name %s, got %s", test.name, test.cmd.String())
			}
		})
	}
}
