// Package server implements the MCP (Model Context Protocol) server for playing-card
// recognition.
//
// This package provides a JSON-RPC 2.0 server that exposes the card recognizer
// through the MCP protocol, so MCP-compatible clients can ask which cards lie on a
// table photograph.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - card_recognize: Detect and identify every card in an image
//   - card_locate_corners: Corner estimation and rectangle check for one outline
//   - card_rectify: Warp a card to the canonical square, returned as PNG
//   - card_references: List the reference labels in match order
//
// # Image Caching
//
// Frames are cached by path and reused across tool calls, so locating corners and
// then rectifying the same photograph decodes it once. The cache persists for the
// lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Objects that cannot be recognized inside an otherwise valid frame are not
// errors; card_recognize lists them under "skipped" with a diagnostic kind.
//
// # Usage
//
//	srv := server.New(recognizer, cfg, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
