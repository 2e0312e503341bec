package terminal

import (
	"fmt"
	"image/color"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/loop"
)

// Character cells used for one board cell
const (
	CellCols = 8
	CellRows = 3

	BannerRow = engine.Rows*CellRows + 1
)

// Screen draws the board on a tcell screen and turns key presses into commands.
// It satisfies engine.Renderer, loop.InputSource and loop.Announcer.
type Screen struct {
	screen tcell.Screen
	config *engine.GameConfig

	mu      sync.Mutex
	pending []loop.Command
	banner  string
	status  engine.Status

	done chan struct{}
}

// New wraps an initialised tcell screen
func New(screen tcell.Screen, config *engine.GameConfig) *Screen {
	if config == nil {
		config = engine.DefaultConfig()
	}
	return &Screen{
		screen: screen,
		config: config,
		banner: config.Messages.Welcome,
		status: engine.StatusContinue,
		done:   make(chan struct{}),
	}
}

// Open creates and initialises the real terminal
func Open(config *engine.GameConfig) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	return New(screen, config), nil
}

// Listen reads terminal events until Close. Call it in its own goroutine.
func (s *Screen) Listen() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				s.push(loop.CmdQuit)
				return
			}
			s.handleEvent(ev)
		}
	}
}

func (s *Screen) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if cmd, ok := translateKey(ev.Key(), ev.Rune()); ok {
			s.push(cmd)
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
}

func (s *Screen) push(cmd loop.Command) {
	s.mu.Lock()
	s.pending = append(s.pending, cmd)
	if cmd == loop.CmdRestart {
		s.status = engine.StatusContinue
		s.banner = s.config.Messages.Welcome
	}
	s.mu.Unlock()
}

// translateKey maps arrows, wasd/hjkl, space/r and q/Esc/Ctrl-C
func translateKey(key tcell.Key, r rune) (loop.Command, bool) {
	switch key {
	case tcell.KeyLeft:
		return loop.CmdLeft, true
	case tcell.KeyRight:
		return loop.CmdRight, true
	case tcell.KeyUp:
		return loop.CmdUp, true
	case tcell.KeyDown:
		return loop.CmdDown, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return loop.CmdQuit, true
	case tcell.KeyRune:
		switch r {
		case 'a', 'h':
			return loop.CmdLeft, true
		case 'd', 'l':
			return loop.CmdRight, true
		case 'w', 'k':
			return loop.CmdUp, true
		case 's', 'j':
			return loop.CmdDown, true
		case ' ', 'r':
			return loop.CmdRestart, true
		case 'q':
			return loop.CmdQuit, true
		}
	}
	return 0, false
}

// Poll returns the commands queued since the last call
func (s *Screen) Poll() []loop.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Announce shows the end-of-game banner until the next restart
func (s *Screen) Announce(status engine.Status, message string) {
	s.mu.Lock()
	s.status = status
	s.banner = message
	if s.config.Messages.Restart != "" {
		s.banner = message + " " + s.config.Messages.Restart
	}
	s.mu.Unlock()
}

// Render draws one frame. Tile pixel positions are scaled to character cells
// so tiles are seen sliding between cells.
func (s *Screen) Render(tiles []engine.Tile) {
	s.mu.Lock()
	banner, status := s.banner, s.status
	s.mu.Unlock()

	s.screen.Clear()

	// the one-column gap right of every cell shows the outline color
	outline := tcell.StyleDefault.Background(rgb(s.config.OutlineColor()))
	for y := 0; y < engine.Rows*CellRows; y++ {
		for x := 0; x < engine.Cols*CellCols; x++ {
			s.screen.SetContent(x, y, ' ', nil, outline)
		}
	}
	bg := tcell.StyleDefault.Background(rgb(s.config.BackgroundColor()))
	for row := 0; row < engine.Rows; row++ {
		for col := 0; col < engine.Cols; col++ {
			s.fill(col*CellCols, row*CellRows, bg)
		}
	}

	text := rgb(s.config.TextColor())
	for _, t := range tiles {
		x, y := s.project(t)
		style := tcell.StyleDefault.Background(rgb(s.config.TileColor(t.Value))).Foreground(text).Bold(true)
		s.fill(x, y, style)
		s.label(x, y, strconv.Itoa(t.Value), style)
	}

	bannerStyle := tcell.StyleDefault
	switch status {
	case engine.StatusWin:
		bannerStyle = bannerStyle.Foreground(tcell.ColorGreen).Bold(true)
	case engine.StatusLost:
		bannerStyle = bannerStyle.Foreground(tcell.ColorRed).Bold(true)
	}
	for i, r := range []rune(banner) {
		s.screen.SetContent(i, BannerRow, r, nil, bannerStyle)
	}
	s.screen.Show()
}

// project converts a tile's pixel position to the top-left character cell
func (s *Screen) project(t engine.Tile) (int, int) {
	g := s.config.Geometry()
	x := int(t.X * CellCols / float64(g.CellWidth))
	y := int(t.Y * CellRows / float64(g.CellHeight))
	return x, y
}

func (s *Screen) fill(x, y int, style tcell.Style) {
	for dy := 0; dy < CellRows; dy++ {
		for dx := 0; dx < CellCols-1; dx++ {
			s.screen.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
}

func (s *Screen) label(x, y int, text string, style tcell.Style) {
	start := x + (CellCols-1-len(text))/2
	for i, r := range text {
		s.screen.SetContent(start+i, y+CellRows/2, r, nil, style)
	}
}

// Close stops Listen and restores the terminal
func (s *Screen) Close() {
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	s.screen.Fini()
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
