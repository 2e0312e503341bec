// Command validate lints the preset JSON files in the ../configs directory
// (or the directory given as the first argument). It checks:
//   - JSON structure and the rules the engine enforces when loading a preset
//   - Every message key the front ends display
//   - Adjacent palette entries that cannot be told apart
//   - Slides slow enough to make the game feel stuck
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wricardo/slide2048/game/engine"
)

const (
	// minPaletteDistance is the smallest CIE76 distance (scaled to 0..1) between neighbouring tile colors
	minPaletteDistance = 0.01
	// maxSlide bounds a slide across the whole board
	maxSlide = 2 * time.Second
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and lints a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
	}

	messages := map[string]string{
		"welcome":   config.Messages.Welcome,
		"victory":   config.Messages.Victory,
		"lost":      config.Messages.Lost,
		"no_motion": config.Messages.NoMotion,
		"merged":    config.Messages.Merged,
		"restart":   config.Messages.Restart,
	}
	for _, key := range []string{"welcome", "victory", "lost", "no_motion", "merged", "restart"} {
		if messages[key] == "" {
			result.fail("Missing required message: %s", key)
		}
	}

	if !result.Valid {
		return result
	}

	palette := validatePalette(config.Palette)
	if !palette.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, palette.Errors...)

	slide := slideDuration(&config)
	if slide > maxSlide {
		result.fail("A slide across the board takes %s, more than %s", slide, maxSlide)
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Cells: %dx%d px, %d px per frame at %d fps", config.CellWidth, config.CellHeight, config.Velocity, config.FPS))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Longest slide: %s", slide))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Loss policy: %s", config.LossPolicy))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Spawn after no-op moves: %t", !config.SuppressNoopSpawn))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Lowest text contrast: %.2f", lowestContrast(&config)))
	}

	return result
}

// validatePalette rejects neighbouring tile colors that are too close to tell apart
func validatePalette(palette []string) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	colors := make([]colorful.Color, 0, len(palette))
	for i, hex := range palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			result.fail("palette[%d]: invalid color %q", i, hex)
			continue
		}
		colors = append(colors, c)
	}
	if !result.Valid {
		return result
	}

	for i := 1; i < len(colors); i++ {
		if d := colors[i-1].DistanceLab(colors[i]); d < minPaletteDistance {
			result.fail("palette[%d] and palette[%d] are indistinguishable (distance %.3f)", i-1, i, d)
		}
	}
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Palette: %d colors, tiles above %d share the last one", len(colors), 2<<(len(colors)-1)))
	}
	return result
}

// slideDuration is the time a tile needs to cross the whole board
func slideDuration(config *engine.GameConfig) time.Duration {
	if config.Velocity <= 0 || config.FPS <= 0 {
		return 0
	}
	cell := config.CellWidth
	if config.CellHeight > cell {
		cell = config.CellHeight
	}
	frames := (engine.Cols - 1) * cell / config.Velocity
	return time.Duration(frames) * time.Second / time.Duration(config.FPS)
}

// lowestContrast is the smallest Lab distance between the text color and any tile color
func lowestContrast(config *engine.GameConfig) float64 {
	text, err := colorful.Hex(config.FontColor)
	if err != nil {
		return 0
	}
	lowest := -1.0
	for _, hex := range config.Palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			continue
		}
		if d := text.DistanceLab(c); lowest < 0 || d < lowest {
			lowest = d
		}
	}
	return lowest
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
