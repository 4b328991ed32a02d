// Package server implements the MCP (Model Context Protocol) server for the
// ball detector.
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
// Frame Information:
//   - image_load: Load a frame and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Pixel color, ROI mean and classifier label
//
// Ball Detection:
//   - balls_detect: Full pipeline, reconciled balls
//   - balls_annotate: Detections drawn onto the frame, as PNG
//
// Stage Inspection:
//   - balls_detect_circles: Geometric candidates only
//   - balls_segment: Segmented candidates by color
//   - balls_classify: Classify arbitrary points
//   - balls_edges: Canny edge map
//
// Calibration:
//   - config_get: Configuration in use
//
// # Frame Caching
//
// Frames are cached by path and reused across tool calls. The cache persists
// for the lifetime of the server process.
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
//	p, err := pipeline.New(config.Default(), logger)
//	if err != nil {
//	    return err
//	}
//	return server.New(p, logger).Run()
package server
