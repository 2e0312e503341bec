// Package api provides the HTTP REST API for the 2048 slide puzzle.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                       create (body: {"config_id": "classic"})
//   - GET    /api/sessions?sort=&order=&limit=   list (sort: accessed|created|highest)
//   - GET    /api/sessions/unified               several boards side by side
//   - GET    /api/sessions/{id}                  session info
//   - DELETE /api/sessions/{id}                  delete
//
// Game:
//   - GET  /api/sessions/{id}/state
//   - POST /api/sessions/{id}/move               {"direction": "left", "reset": false, "animate": false}
//   - POST /api/sessions/{id}/bulk-move          {"moves": ["left", "up"], "reset": false}
//   - POST /api/sessions/{id}/reset
//   - GET  /api/sessions/{id}/history?page=&limit=&order=
//   - GET  /api/sessions/{id}/cells/{row}/{col}
//
// Presets:
//   - GET  /api/configs
//   - GET  /api/configs/{name}
//   - POST /api/configs                          body is a preset, optional "config_id"
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}                       live updates, see transport/websocket
//
// Errors are returned as JSON with an appropriate status code:
//
//	{"error": "session not found: ..."}
//
// An unknown direction or an off-board cell is a 400, a missing session a
// 404. A move on a finished game is not an error: it answers 200 with
// success=false and the unchanged state.
//
// Moves on a session with attached WebSocket viewers are always resolved with
// frame recording so the viewers can replay the slide. The frames are only
// included in the HTTP response when the caller sets "animate".
package api
