package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/slide2048/game/engine"
)

// ErrCellOutOfRange is returned by DescribeCell for coordinates off the board
var ErrCellOutOfRange = errors.New("cell out of range")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move resolves a single direction for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, opts MoveOptions) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	direction = strings.ToLower(strings.TrimSpace(direction))
	if _, err := engine.ParseDirection(direction); err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if opts.Reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	var recorder *engine.FrameRecorder
	if opts.Animate {
		recorder = engine.NewFrameRecorder(nil)
		sess.Engine.SetRenderer(recorder)
		defer sess.Engine.SetRenderer(nil)
	}

	res, err := sess.Engine.Move(direction)
	if errors.Is(err, engine.ErrGameOver) {
		state := sess.Engine.GetState()
		return &MoveResult{
			Success:   false,
			GameState: state,
			Message:   "Game is over. Reset to play again",
			Events:    events,
			BoardRisk: riskCode(engine.AnalyzeBoardRisk(state.Grid)),
		}, nil
	}
	if err != nil {
		// Resolution invariants broke; the board may be inconsistent
		log.Printf("[MOVE] session=%s dir=%s error=%v", sess.ID, direction, err)
		return nil, fmt.Errorf("move %s: %w", direction, err)
	}

	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:    res.Moved,
		GameState:  state,
		Message:    state.Message,
		Events:     append(events, resolutionEvents(res, state.Message)...),
		Resolution: res,
		BoardRisk:  riskCode(engine.AnalyzeBoardRisk(state.Grid)),
	}
	if recorder != nil {
		result.Frames = recorder.Drain()
	}

	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartHighest = sess.Engine.Board().HighestTile()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game is already over"
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		move = strings.ToLower(strings.TrimSpace(move))
		if _, err := engine.ParseDirection(move); err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d invalid: %q", i+1, move)
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		res, err := sess.Engine.Move(move)
		if err != nil {
			log.Printf("[BULK] session=%s move=%d dir=%s error=%v", sess.ID, i+1, move, err)
			return nil, fmt.Errorf("move %d (%s): %w", i+1, move, err)
		}

		result.MovesExecuted++
		result.TotalMerges += len(res.Merges)
		result.TotalFrames += res.Frames

		state := sess.Engine.GetState()
		result.Events = append(result.Events, resolutionEvents(res, state.Message)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:         i + 1,
			Dir:         move,
			Moved:       res.Moved,
			Merges:      len(res.Merges),
			Frames:      res.Frames,
			Spawned:     res.Spawned,
			Status:      res.Status,
			HighestTile: state.HighestTile,
		})

		if res.Status != engine.StatusContinue {
			result.StopReasonCode = statusCode(res.Status)
			result.StoppedReason = state.Message
			if i+1 < len(moves) {
				result.StoppedOnMove = i + 1
			}
			break
		}
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndHighest = endState.HighestTile
	result.GameOver = endState.GameOver
	result.Message = endState.Message
	if endState.GameOver {
		result.GameOverCode = statusCode(endState.Status)
	}
	result.PossibleMoves = endState.PossibleMoves
	result.BoardRisk = riskCode(engine.AnalyzeBoardRisk(endState.Grid))

	return result, nil
}

// Reset resets a game session to a fresh board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribeCell reports the value, color and neighbors of one cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, row, col int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if row < 0 || row >= engine.Rows || col < 0 || col >= engine.Cols {
		return nil, fmt.Errorf("%w: (%d, %d) on a %dx%d board", ErrCellOutOfRange, row, col, engine.Rows, engine.Cols)
	}

	grid := sess.Engine.Board().Grid()
	value := grid[row][col]
	info := &CellInfo{
		Row:       row,
		Col:       col,
		Value:     value,
		Empty:     value == 0,
		Neighbors: make(map[string]int),
	}
	if value != 0 {
		tile := engine.Tile{Value: value}
		info.ColorIndex = tile.ColorIndex(len(sess.Config.Palette))
		info.Color = sess.Config.Palette[info.ColorIndex]
	}

	offsets := []struct {
		name   string
		dr, dc int
	}{
		{"up", -1, 0},
		{"down", 1, 0},
		{"left", 0, -1},
		{"right", 0, 1},
	}
	for _, o := range offsets {
		r, c := row+o.dr, col+o.dc
		if r < 0 || r >= engine.Rows || c < 0 || c >= engine.Cols {
			continue
		}
		info.Neighbors[o.name] = grid[r][c]
		if value != 0 && grid[r][c] == value {
			info.CanMerge = append(info.CanMerge, o.name)
		}
	}

	return info, nil
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to a fresh board",
		Timestamp: time.Now(),
	}
}

// resolutionEvents generates events from a resolution
func resolutionEvents(res *engine.Resolution, message string) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if res.Moved {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Slid %s in %d frames", res.Direction, res.Frames),
			Timestamp: now,
		})
	} else {
		events = append(events, GameEvent{
			Type:      "no_motion",
			Message:   fmt.Sprintf("Nothing moved %s", res.Direction),
			Timestamp: now,
		})
	}

	for _, m := range res.Merges {
		cell := engine.Cell{Row: m.Row, Col: m.Col}
		events = append(events, GameEvent{
			Type:      "merge",
			Message:   fmt.Sprintf("Merged into %d at (%d,%d)", m.Value, m.Row, m.Col),
			Timestamp: now,
			Cell:      &cell,
		})
	}

	if res.Spawned != nil {
		cell := engine.Cell{Row: res.Spawned.Row, Col: res.Spawned.Col}
		events = append(events, GameEvent{
			Type:      "spawn",
			Message:   fmt.Sprintf("New %d at (%d,%d)", res.Spawned.Value, res.Spawned.Row, res.Spawned.Col),
			Timestamp: now,
			Cell:      &cell,
		})
	}

	switch res.Status {
	case engine.StatusWin:
		events = append(events, GameEvent{Type: "victory", Message: message, Timestamp: now})
	case engine.StatusLost:
		events = append(events, GameEvent{Type: "game_over", Message: message, Timestamp: now})
	}

	return events
}

func statusCode(status engine.Status) string {
	switch status {
	case engine.StatusWin:
		return "victory"
	case engine.StatusLost:
		return "lost"
	}
	return ""
}

func riskCode(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "critical"):
		return "CRITICAL"
	case strings.Contains(t, "danger"):
		return "DANGER"
	case strings.Contains(t, "caution"):
		return "CAUTION"
	case strings.Contains(t, "safe"):
		return "SAFE"
	default:
		return "UNKNOWN"
	}
}
