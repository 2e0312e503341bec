// Package websocket pushes live board updates to viewers of a session.
//
// A central Hub tracks clients per session ID. Each connection gets a read
// pump that only keeps the socket alive and a write pump that forwards
// queued JSON messages, one document per WebSocket frame.
//
// Message Protocol:
//
//   - state_update: the settled GameState after a move or reset
//   - animation: one Resolution, every recorded frame of it, and the settled state
//   - any custom event queued with BroadcastEvent
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
