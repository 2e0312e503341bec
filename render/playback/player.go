package playback

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/loop"
)

// Update is what a source produced for one command: the animation frames and the state after it
type Update struct {
	Frames [][]engine.Tile
	State  *engine.GameState
}

// Source executes commands against a game, local or remote
type Source interface {
	Move(ctx context.Context, dir engine.Direction) (*Update, error)
	Reset(ctx context.Context) (*Update, error)
	State(ctx context.Context) (*Update, error)
}

// Player queues frames so a fixed-rate display can show one per tick.
// A command is only sent to the source once every frame of the previous one was shown.
type Player struct {
	src Source

	mu       sync.Mutex
	frames   [][]engine.Tile
	current  []engine.Tile
	pending  []loop.Command
	state    *engine.GameState
	lastErr  error
	quitting bool
}

// NewPlayer creates a player and loads the initial board from src
func NewPlayer(ctx context.Context, src Source) (*Player, error) {
	p := &Player{src: src}
	u, err := src.State(ctx)
	if err != nil {
		return nil, err
	}
	p.Enqueue(u)
	return p, nil
}

// Push queues a player command
func (p *Player) Push(cmd loop.Command) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cmd == loop.CmdQuit {
		p.quitting = true
		return
	}
	p.pending = append(p.pending, cmd)
}

// Enqueue appends frames for display. Sources that receive pushed updates call it directly.
func (p *Player) Enqueue(u *Update) {
	if u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, u.Frames...)
	if u.State != nil {
		p.state = u.State
		// the settled board, with the spawned tile
		p.frames = append(p.frames, u.State.Tiles)
	}
}

// Step advances one display tick and returns the tiles to draw
func (p *Player) Step(ctx context.Context) []engine.Tile {
	p.mu.Lock()
	if len(p.frames) == 0 && len(p.pending) > 0 {
		cmd := p.pending[0]
		p.pending = p.pending[1:]
		p.mu.Unlock()

		u, err := p.run(ctx, cmd)
		if err != nil {
			log.Printf("[PLAY] %s failed: %v", cmd, err)
		}

		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		p.Enqueue(u)
		p.mu.Lock()
	}
	if len(p.frames) > 0 {
		p.current = p.frames[0]
		p.frames = p.frames[1:]
	}
	out := p.current
	p.mu.Unlock()
	return out
}

func (p *Player) run(ctx context.Context, cmd loop.Command) (*Update, error) {
	if cmd == loop.CmdRestart {
		return p.src.Reset(ctx)
	}
	dir, ok := cmd.Direction()
	if !ok {
		return nil, nil
	}
	if s := p.State(); s != nil && s.GameOver {
		return nil, nil
	}
	return p.src.Move(ctx, dir)
}

// Animating reports whether frames are still waiting to be shown
func (p *Player) Animating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames) > 0
}

// State returns the latest known game state
func (p *Player) State() *engine.GameState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error of the last command, if any
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Quitting reports whether Quit was pushed
func (p *Player) Quitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quitting
}

// Local plays against an in-process engine, recording every frame
type Local struct {
	eng       *engine.GameEngine
	recorder  *engine.FrameRecorder
	listeners []loop.Listener
}

// NewLocal wires a recorder into eng. Frames are not paced; the display paces playback.
func NewLocal(eng *engine.GameEngine, listeners ...loop.Listener) *Local {
	rec := engine.NewFrameRecorder(nil)
	eng.SetRenderer(rec)
	eng.SetClock(engine.NopClock{})
	return &Local{eng: eng, recorder: rec, listeners: listeners}
}

// Move resolves one direction
func (l *Local) Move(_ context.Context, dir engine.Direction) (*Update, error) {
	res, err := l.eng.Move(string(dir))
	if errors.Is(err, engine.ErrGameOver) {
		return &Update{State: l.eng.GetState()}, nil
	}
	if err != nil {
		return nil, err
	}
	for _, ls := range l.listeners {
		ls.OnResolution(res)
	}
	return &Update{Frames: l.recorder.Drain(), State: l.eng.GetState()}, nil
}

// Reset starts a new board
func (l *Local) Reset(context.Context) (*Update, error) {
	l.recorder.Drain()
	return &Update{State: l.eng.Reset()}, nil
}

// State returns the current board
func (l *Local) State(context.Context) (*Update, error) {
	return &Update{State: l.eng.GetState()}, nil
}
