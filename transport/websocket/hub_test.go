package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/slide2048/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func testState() *engine.GameState {
	return &engine.GameState{
		Grid:        [][]int{{2, 4, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 8}},
		Status:      engine.StatusContinue,
		HighestTile: 8,
		TileCount:   3,
	}
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		return message
	case <-time.After(100 * time.Millisecond):
		t.Fatal("No message received within timeout")
	}
	return Message{}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected broadcast buffer of %d, got %d", engine.WebSocketBufferSize, cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if hub.ClientCount("test-session") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// A second unregister must not panic on the closed channel
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)
	other := newTestClient(hub, "other")

	hub.registerClient(client1)
	hub.registerClient(client2)
	hub.registerClient(other)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.BroadcastToSession(sessionID, testState())
	receive(t, client1)
	receive(t, client2)
	if len(other.send) != 0 {
		t.Error("Client of another session should not receive the update")
	}

	hub.unregisterClient(client1)
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"
	client := newTestClient(hub, sessionID)
	hub.registerClient(client)

	hub.BroadcastToSession(sessionID, testState())

	message := receive(t, client)
	if message.SessionID != sessionID {
		t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
	}
	if message.Event != EventStateUpdate {
		t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
	}
	if message.GameState.HighestTile != 8 || message.GameState.Grid[3][3] != 8 {
		t.Error("GameState not correctly transmitted")
	}
}

func TestHubBroadcastAnimation(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "anim")
	hub.registerClient(client)

	res := &engine.Resolution{Direction: engine.Left, Status: engine.StatusContinue, Frames: 2, Moved: true}
	frames := [][]engine.Tile{
		{{Value: 2, Row: 0, Col: 1, X: 180, Y: 0}},
		{{Value: 2, Row: 0, Col: 0, X: 0, Y: 0}},
	}
	hub.BroadcastAnimation("anim", res, frames, testState())

	message := receive(t, client)
	if message.Event != EventAnimation {
		t.Errorf("Expected event %q, got %s", EventAnimation, message.Event)
	}
	if len(message.Frames) != 2 || message.Frames[0][0].X != 180 {
		t.Errorf("Frames not transmitted: %+v", message.Frames)
	}
	if message.Resolution == nil || message.Resolution.Direction != engine.Left {
		t.Error("Resolution not transmitted")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte, 1)}
	hub.registerClient(client)

	hub.BroadcastToSession("slow", testState())
	hub.BroadcastToSession("slow", testState())

	if hub.ClientCount("slow") != 0 {
		t.Error("Expected the client with a full buffer to be dropped")
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newTestClient(hub, "event-test")
	hub.registerClient(client)
	go hub.Run(ctx)

	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	message := receive(t, client)
	if message.Event != "custom-event" {
		t.Errorf("Expected event 'custom-event', got %s", message.Event)
	}
	if message.Data != "test-data" {
		t.Errorf("Expected data 'test-data', got %v", message.Data)
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "stop")
	hub.registerClient(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if hub.ClientCount("stop") != 0 {
		t.Error("Expected clients to be released on shutdown")
	}
}

func startWSServer(t *testing.T, hub *Hub) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn, _, err := websocket.DefaultDialer.Dial(startWSServer(t, hub)+"?session=ws-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitFor(t, func() bool { return hub.ClientCount("ws-test") == 1 })

	conn.Close()

	waitFor(t, func() bool { return hub.ClientCount("ws-test") == 0 })
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn, _, err := websocket.DefaultDialer.Dial(startWSServer(t, hub)+"?session=msg-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount("msg-test") == 1 })

	hub.BroadcastToSession("msg-test", testState())
	hub.BroadcastEvent("msg-test", EventReset, nil)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var first, second Message
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	if first.SessionID != "msg-test" || first.GameState == nil {
		t.Fatalf("Unexpected first message: %+v", first)
	}
	if first.GameState.Grid[0][1] != 4 || first.GameState.TileCount != 3 {
		t.Error("GameState grid not correctly received")
	}
	if second.Event != EventReset {
		t.Errorf("Expected reset event, got %q", second.Event)
	}
}
