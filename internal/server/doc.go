// Package server implements the MCP (Model Context Protocol) server for
// handwriting character segmentation.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region Operations:
//   - image_crop: Extract a rectangular region, clamped to the image
//
// Segmentation:
//   - segment_characters: Split positions for one text line, optionally with a diagnostic plot
//   - segment_projection: Projection, zero runs, spans and candidates for one line
//   - segment_template: Split positions for every line of a templated notebook page
//
// Paper Templates:
//   - template_list: Built-in and configured page templates
//
// Segmentation tools accept either a path (decoded once and cached) or an
// inline base64 image in image_data; browser canvases can send their data URL
// unchanged.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and a ToolErrorData payload whose code is one of DECODE_ERROR,
// INVALID_REGION, INVALID_CONFIG, INTERNAL_ERROR, UNKNOWN_TEMPLATE,
// INVALID_ARGUMENT or TOOL_ERROR.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
