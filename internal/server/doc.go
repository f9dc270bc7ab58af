// Package server implements the MCP (Model Context Protocol) server exposing
// board recognition as tools.
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
// Recognition:
//   - board_to_sgf: Photograph to SGF record with stone counts
//
// Inspection:
//   - board_locate: Board bounding box
//   - board_grid: Region, grid lines, sampling window and a text diagram
//   - board_overlay: Annotated PNG of every stage
//
// Records:
//   - sgf_summary: Parse an SGF record
//
// Photographs are passed either as a file path or as base64 bytes. Vision
// parameters may be overridden per call with an options object using the
// configuration file keys.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses. Problems with the
// call itself (bad arguments, an undecodable image, a photo without stones)
// use code -32602 with the reason as message. Everything else uses -32000
// with the Go error string in data.
package server
