package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/slide2048/game/engine"
)

// Command is one player intent
type Command int

const (
	CmdLeft Command = iota + 1
	CmdRight
	CmdUp
	CmdDown
	CmdRestart
	CmdQuit
)

func (c Command) String() string {
	switch c {
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdUp:
		return "up"
	case CmdDown:
		return "down"
	case CmdRestart:
		return "restart"
	case CmdQuit:
		return "quit"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Direction returns the slide direction for a movement command
func (c Command) Direction() (engine.Direction, bool) {
	switch c {
	case CmdLeft:
		return engine.Left, true
	case CmdRight:
		return engine.Right, true
	case CmdUp:
		return engine.Up, true
	case CmdDown:
		return engine.Down, true
	}
	return "", false
}

// InputSource yields the commands received since the last poll, in arrival order
type InputSource interface {
	Poll() []Command
}

// Announcer is told when a game ends
type Announcer interface {
	Announce(status engine.Status, message string)
}

// Listener observes every resolution
type Listener interface {
	OnResolution(res *engine.Resolution)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(res *engine.Resolution)

func (f ListenerFunc) OnResolution(res *engine.Resolution) { f(res) }

// Option configures a Loop
type Option func(*Loop)

// WithRenderer draws every animation frame and every idle frame
func WithRenderer(r engine.Renderer) Option {
	return func(l *Loop) { l.renderer = r }
}

// WithClock paces both the outer loop and animation frames
func WithClock(c engine.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithAnnouncer reports terminal states
func WithAnnouncer(a Announcer) Option {
	return func(l *Loop) { l.announcer = a }
}

// WithListener adds a resolution observer
func WithListener(ls Listener) Option {
	return func(l *Loop) { l.listeners = append(l.listeners, ls) }
}

// Loop drives a GameEngine from an InputSource
type Loop struct {
	eng       *engine.GameEngine
	input     InputSource
	renderer  engine.Renderer
	clock     engine.Clock
	announcer Announcer
	listeners []Listener
}

// New creates a loop around eng. The loop's renderer and clock replace the engine's.
func New(eng *engine.GameEngine, input InputSource, opts ...Option) *Loop {
	l := &Loop{
		eng:      eng,
		input:    input,
		renderer: engine.NopRenderer{},
		clock:    engine.NopClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	eng.SetRenderer(l.renderer)
	eng.SetClock(l.clock)
	return l
}

// Run processes input until Quit or cancellation. Each queued command is
// resolved to completion before the next is read.
func (l *Loop) Run(ctx context.Context) error {
	l.renderer.Render(l.eng.Board().Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		l.clock.Tick(l.eng.GetConfig().FPS)

		for _, cmd := range l.input.Poll() {
			quit, err := l.handle(cmd)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		l.renderer.Render(l.eng.Board().Snapshot())
	}
}

func (l *Loop) handle(cmd Command) (bool, error) {
	switch cmd {
	case CmdQuit:
		return true, nil
	case CmdRestart:
		l.eng.Reset()
		return false, nil
	}

	dir, ok := cmd.Direction()
	if !ok || l.eng.IsGameOver() {
		return false, nil
	}

	res, err := l.eng.Move(string(dir))
	if errors.Is(err, engine.ErrGameOver) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", dir, err)
	}

	for _, ls := range l.listeners {
		ls.OnResolution(res)
	}
	if res.Status != engine.StatusContinue && l.announcer != nil {
		l.announcer.Announce(res.Status, l.eng.GetState().Message)
		// the banner must reach the screen even if Quit follows in the same batch
		l.renderer.Render(l.eng.Board().Snapshot())
	}
	return false, nil
}
