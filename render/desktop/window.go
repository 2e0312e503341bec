package desktop

import (
	"context"
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/loop"
	"github.com/wricardo/slide2048/render/playback"
)

const (
	statusHeight = 40
	gap          = 4

	// ebitenutil debug font cell
	glyphHeight = 16
)

var keys = []struct {
	key ebiten.Key
	cmd loop.Command
}{
	{ebiten.KeyArrowLeft, loop.CmdLeft},
	{ebiten.KeyA, loop.CmdLeft},
	{ebiten.KeyArrowRight, loop.CmdRight},
	{ebiten.KeyD, loop.CmdRight},
	{ebiten.KeyArrowUp, loop.CmdUp},
	{ebiten.KeyW, loop.CmdUp},
	{ebiten.KeyArrowDown, loop.CmdDown},
	{ebiten.KeyS, loop.CmdDown},
	{ebiten.KeySpace, loop.CmdRestart},
	{ebiten.KeyR, loop.CmdRestart},
	{ebiten.KeyEscape, loop.CmdQuit},
	{ebiten.KeyQ, loop.CmdQuit},
}

// Window shows a playback.Player in an ebiten window, one frame per tick
type Window struct {
	ctx    context.Context
	player *playback.Player
	config *engine.GameConfig
	title  string
	tiles  []engine.Tile

	tileFont  font.Face
	titleFont font.Face
}

// NewWindow creates a window for player using the preset's geometry and colors
func NewWindow(ctx context.Context, player *playback.Player, config *engine.GameConfig, title string) (*Window, error) {
	if config == nil {
		config = engine.DefaultConfig()
	}
	w := &Window{ctx: ctx, player: player, config: config, title: title}

	tt, err := opentype.Parse(fonts.MPlus1pRegular_ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	size := float64(min(config.CellWidth, config.CellHeight)) / 4
	if w.tileFont, err = opentype.NewFace(tt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}); err != nil {
		return nil, fmt.Errorf("tile font: %w", err)
	}
	if w.titleFont, err = opentype.NewFace(tt, &opentype.FaceOptions{Size: size * 1.5, DPI: 72, Hinting: font.HintingFull}); err != nil {
		return nil, fmt.Errorf("title font: %w", err)
	}
	return w, nil
}

// Run opens the window and blocks until it is closed, Quit is pressed or ctx ends
func (w *Window) Run() error {
	width, height := w.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetTPS(w.config.FPS)
	return ebiten.RunGame(w)
}

// Update polls the keyboard and advances playback by one frame
func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k.key) {
			w.player.Push(k.cmd)
		}
	}
	if w.player.Quitting() {
		return ebiten.Termination
	}
	w.tiles = w.player.Step(w.ctx)
	return nil
}

// Draw paints the board, the tiles at their current pixel positions and the status line
func (w *Window) Draw(screen *ebiten.Image) {
	g := w.config.Geometry()
	cw, ch := float32(g.CellWidth), float32(g.CellHeight)

	screen.Fill(w.config.OutlineColor())
	bg := w.config.BackgroundColor()
	for row := 0; row < engine.Rows; row++ {
		for col := 0; col < engine.Cols; col++ {
			vector.DrawFilledRect(screen, float32(col)*cw+gap, float32(row)*ch+gap, cw-2*gap, ch-2*gap, bg, false)
		}
	}

	for _, t := range w.tiles {
		x, y := float32(t.X), float32(t.Y)
		vector.DrawFilledRect(screen, x+gap, y+gap, cw-2*gap, ch-2*gap, w.config.TileColor(t.Value), false)
		drawCentered(screen, strconv.Itoa(t.Value), w.tileFont, int(x+cw/2), int(y+ch/2), w.config.TextColor())
	}

	top := float32(engine.Rows) * ch
	if state := w.player.State(); state != nil && state.GameOver && !w.player.Animating() {
		w.drawOverlay(screen, state, top)
	}
	w.drawStatus(screen, top)
}

// drawOverlay dims the board and shows the outcome
func (w *Window) drawOverlay(screen *ebiten.Image, state *engine.GameState, height float32) {
	width := float32(engine.Cols * w.config.CellWidth)
	vector.DrawFilledRect(screen, 0, 0, width, height, color.RGBA{0, 0, 0, 180}, false)
	title := "Game over"
	if state.Victory {
		title = "You win!"
	}
	drawCentered(screen, title, w.titleFont, int(width/2), int(height/2)-w.titleFont.Metrics().Height.Ceil(), color.White)
	drawCentered(screen, w.config.Messages.Restart, w.tileFont, int(width/2), int(height/2)+w.tileFont.Metrics().Height.Ceil(), color.White)
}

// drawCentered draws s with its bounding box centered on (cx, cy)
func drawCentered(screen *ebiten.Image, s string, face font.Face, cx, cy int, clr color.Color) {
	if s == "" {
		return
	}
	b := text.BoundString(face, s)
	text.Draw(screen, s, face, cx-b.Min.X-b.Dx()/2, cy-b.Min.Y-b.Dy()/2, clr)
}

func (w *Window) drawStatus(screen *ebiten.Image, top float32) {
	width := float32(engine.Cols * w.config.CellWidth)
	vector.DrawFilledRect(screen, 0, top, width, statusHeight, color.RGBA{0x33, 0x33, 0x33, 0xff}, false)

	line := w.config.Messages.Welcome
	if state := w.player.State(); state != nil {
		line = fmt.Sprintf("Highest: %d  Moves: %d", state.HighestTile, state.CurrentMovesCount)
		if state.Message != "" {
			line += "  " + state.Message
		}
		if state.GameOver && w.config.Messages.Restart != "" {
			line += "  " + w.config.Messages.Restart
		}
	}
	if err := w.player.Err(); err != nil {
		line = "Error: " + err.Error()
	}
	ebitenutil.DebugPrintAt(screen, line, 8, int(top)+(statusHeight-glyphHeight)/2)
}

// Layout keeps the logical screen at the board's pixel size plus the status line
func (w *Window) Layout(_, _ int) (int, int) {
	return engine.Cols * w.config.CellWidth, engine.Rows*w.config.CellHeight + statusHeight
}
