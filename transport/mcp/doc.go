// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON answer is rendered as plain text an agent can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: board as right-aligned numbers, "." for empty cells
//   - move, bulk_move: slide the board; both take an "intent" that is not forwarded
//   - reset_game, move_history
//   - list_configs, game_instructions
//   - describe_cell: value, neighbors and merge directions of one cell
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
