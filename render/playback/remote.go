package playback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/service"
	wshub "github.com/wricardo/slide2048/transport/websocket"
)

// Remote plays a session hosted by the API server. While Watch runs, every
// change to the session (including moves made by other clients) arrives over
// the WebSocket and Move returns no update of its own.
type Remote struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
	watching   atomic.Bool
}

// NewRemote creates a remote source for one session
func NewRemote(baseURL, sessionID string) *Remote {
	return &Remote{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		sessionID:  sessionID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Move posts a direction to the session
func (r *Remote) Move(ctx context.Context, dir engine.Direction) (*Update, error) {
	watching := r.watching.Load()
	body := map[string]interface{}{"direction": string(dir), "animate": !watching}

	var result service.MoveResult
	if err := r.call(ctx, http.MethodPost, "/move", body, &result); err != nil {
		return nil, err
	}
	if watching {
		return nil, nil
	}
	return &Update{Frames: result.Frames, State: result.GameState}, nil
}

// Reset restarts the session
func (r *Remote) Reset(ctx context.Context) (*Update, error) {
	var result struct {
		State *engine.GameState `json:"state"`
	}
	if err := r.call(ctx, http.MethodPost, "/reset", struct{}{}, &result); err != nil {
		return nil, err
	}
	if r.watching.Load() {
		return nil, nil
	}
	return &Update{State: result.State}, nil
}

// State fetches the current board
func (r *Remote) State(ctx context.Context) (*Update, error) {
	var state engine.GameState
	if err := r.call(ctx, http.MethodGet, "/state", nil, &state); err != nil {
		return nil, err
	}
	return &Update{State: &state}, nil
}

// Watch streams session updates into p until ctx is done or the connection drops
func (r *Remote) Watch(ctx context.Context, p *Player) error {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/ws"
	u.RawQuery = url.Values{"session": {r.sessionID}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}
	defer conn.Close()

	r.watching.Store(true)
	defer r.watching.Store(false)
	log.Printf("[WS] watching session %s", r.sessionID)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg wshub.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read websocket: %w", err)
		}
		if msg.GameState == nil {
			continue
		}
		p.Enqueue(&Update{Frames: msg.Frames, State: msg.GameState})
	}
}

func (r *Remote) call(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := r.baseURL + "/api/sessions/" + url.PathEscape(r.sessionID) + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error (%d)", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
