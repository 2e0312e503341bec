package engine

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// LossPolicy decides when a full board ends the game
type LossPolicy string

const (
	// LossBoardFull ends the game as soon as every cell is occupied
	LossBoardFull LossPolicy = "board_full"
	// LossNoMoves ends the game only when the board is full and no merge remains
	LossNoMoves LossPolicy = "no_moves"
)

// Messages holds user-facing text for a preset
type Messages struct {
	Welcome  string `json:"welcome"`
	Victory  string `json:"victory"`
	Lost     string `json:"lost"`
	NoMotion string `json:"no_motion"`
	Merged   string `json:"merged"`
	Restart  string `json:"restart"`
}

// GameConfig represents a pacing and presentation preset
type GameConfig struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	CellWidth         int        `json:"cell_width"`
	CellHeight        int        `json:"cell_height"`
	Velocity          int        `json:"velocity"`
	FPS               int        `json:"fps"`
	Palette           []string   `json:"palette"`
	Background        string     `json:"background"`
	Outline           string     `json:"outline"`
	FontColor         string     `json:"font_color"`
	LossPolicy        LossPolicy `json:"loss_policy"`
	SuppressNoopSpawn bool       `json:"suppress_noop_spawn"`
	Messages          Messages   `json:"messages"`
}

// DefaultPalette is the tile palette ordered by value (2, 4, 8, ...)
var DefaultPalette = []string{
	"#ede5da", "#eee1c9", "#f3b27a", "#f69665", "#f77c5f",
	"#f75f3b", "#edd073", "#edcc63", "#ecca50",
}

// DefaultConfig returns the classic preset: 200px cells moving 20px per frame at 60 fps
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic",
		Description: "Classic 4x4 board with 200px cells and 20px steps at 60 fps",
		CellWidth:   200,
		CellHeight:  200,
		Velocity:    20,
		FPS:         60,
		Palette:     append([]string(nil), DefaultPalette...),
		Background:  "#cdc0b4",
		Outline:     "#bbada0",
		FontColor:   "#776e65",
		LossPolicy:  LossBoardFull,
		Messages: Messages{
			Welcome:  "Join the numbers and get to the 2048 tile!",
			Victory:  "You reached 2048!",
			Lost:     "No room left. Game over!",
			NoMotion: "Nothing moved",
			Merged:   "Merged %d tile(s)",
			Restart:  "Press space to play again",
		},
	}
}

// Geometry returns the pixel geometry of the preset
func (c *GameConfig) Geometry() Geometry {
	return Geometry{CellWidth: c.CellWidth, CellHeight: c.CellHeight, Velocity: c.Velocity}
}

// Colors parses the tile palette
func (c *GameConfig) Colors() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(c.Palette))
	for i, hex := range c.Palette {
		rgba, err := parseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette[%d]: %w", i, err)
		}
		out = append(out, rgba)
	}
	return out, nil
}

// TileColor returns the palette color for a tile value
func (c *GameConfig) TileColor(value int) color.RGBA {
	colors, err := c.Colors()
	if err != nil || len(colors) == 0 {
		return color.RGBA{R: 0xed, G: 0xe5, B: 0xda, A: 0xff}
	}
	t := Tile{Value: value}
	return colors[t.ColorIndex(len(colors))]
}

// BackgroundColor, OutlineColor and TextColor fall back to the classic scheme on bad input
func (c *GameConfig) BackgroundColor() color.RGBA { return colorOr(c.Background, "#cdc0b4") }
func (c *GameConfig) OutlineColor() color.RGBA    { return colorOr(c.Outline, "#bbada0") }
func (c *GameConfig) TextColor() color.RGBA       { return colorOr(c.FontColor, "#776e65") }

func colorOr(hex, fallback string) color.RGBA {
	if rgba, err := parseHex(hex); err == nil {
		return rgba
	}
	rgba, _ := parseHex(fallback)
	return rgba
}

func parseHex(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate geometry
	if config.CellWidth < MinCellSize || config.CellWidth > MaxCellSize {
		return fmt.Errorf("config validation: cell_width must be between %d and %d, got %d", MinCellSize, MaxCellSize, config.CellWidth)
	}
	if config.CellHeight < MinCellSize || config.CellHeight > MaxCellSize {
		return fmt.Errorf("config validation: cell_height must be between %d and %d, got %d", MinCellSize, MaxCellSize, config.CellHeight)
	}
	if config.Velocity <= 0 {
		return fmt.Errorf("config validation: velocity must be positive, got %d", config.Velocity)
	}

	// Tiles only land exactly on a cell when every step divides the cell size
	if config.CellWidth%config.Velocity != 0 || config.CellHeight%config.Velocity != 0 {
		return fmt.Errorf("config validation: velocity %d must divide cell size %dx%d",
			config.Velocity, config.CellWidth, config.CellHeight)
	}
	if config.FPS < MinFPS || config.FPS > MaxFPS {
		return fmt.Errorf("config validation: fps must be between %d and %d, got %d", MinFPS, MaxFPS, config.FPS)
	}

	switch config.LossPolicy {
	case LossBoardFull, LossNoMoves:
	case "":
		config.LossPolicy = LossBoardFull
	default:
		return fmt.Errorf("config validation: loss_policy must be %q or %q, got %q", LossBoardFull, LossNoMoves, config.LossPolicy)
	}

	if len(config.Palette) == 0 {
		return fmt.Errorf("config validation: palette must have at least one color")
	}
	if _, err := config.Colors(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	for name, hex := range map[string]string{
		"background": config.Background,
		"outline":    config.Outline,
		"font_color": config.FontColor,
	} {
		if hex == "" {
			continue
		}
		if _, err := parseHex(hex); err != nil {
			return fmt.Errorf("config validation: %s: %w", name, err)
		}
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.Lost == "" {
		return fmt.Errorf("config validation: messages.lost is required")
	}
	if config.Messages.Merged != "" && !strings.Contains(config.Messages.Merged, "%d") {
		return fmt.Errorf("config validation: messages.merged must contain %%d for merge count")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
