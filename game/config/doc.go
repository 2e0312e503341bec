// Package config provides preset management for slide2048.
//
// The config package handles:
//   - Loading presets from JSON files
//   - Preset validation via the engine
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory. Each preset
// defines:
//   - Cell size and per-frame velocity (velocity must divide the cell size)
//   - Frame rate
//   - Tile palette and board colors as hex strings
//   - Loss policy and whether a move that changes nothing still spawns
//   - Messages shown on welcome, victory and loss
//
// Available Presets:
//
//   - classic: 200px cells, 20px steps at 60 fps, spawns after every input
//   - relaxed: slower 10px steps
//   - strict: only a stuck board loses and no-op moves do not spawn
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("strict")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
package config
