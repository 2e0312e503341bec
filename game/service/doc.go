// Package service provides the business logic layer for the 2048 slide puzzle.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading and listing
//   - Move processing, optionally with recorded animation frames
//   - Move history pagination
//   - Cell inspection for agents that cannot see the board
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an independent engine, and the service
// serializes moves so a resolution is never interleaved with another call.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "left", service.MoveOptions{Animate: true})
package service
