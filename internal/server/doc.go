// Package server implements the MCP (Model Context Protocol) server for string art.
//
// This package provides a JSON-RPC 2.0 server that turns photographs into
// string-art nail sequences and renders those sequences as previews and
// printable templates. MCP-compatible clients drive it one tool call at a time.
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
// Source Images:
//   - image_load: Load image and report its size at processing resolution
//
// Layouts:
//   - string_art_nails: Compute nail coordinates for a circular or rectangular frame
//
// Generation:
//   - string_art_generate: Build one grayscale nail sequence
//   - string_art_generate_color: Build four CMYK sequences, one per thread color
//
// Rendering:
//   - string_art_preview: Rasterize sequences to a PNG preview
//   - string_art_svg: Draw sequences as a paper-scaled SVG template
//
// Generation tools accept an optional crop (explicit rectangle or named
// region) and can embed the text instructions and SVG in their result.
//
// # Image Caching
//
// Source images are cached by path and reused across tool calls. The cache
// holds the most recently loaded imaging.DefaultCacheCapacity images and
// drops the oldest when a new path is loaded.
//
// # Logging
//
// Engine progress goes to the logger passed to NewWithLogger, which must not
// write to stdout. cmd/string-art-mcp enables it when STRING_ART_LOG_LEVEL is
// "debug".
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
