// Package server implements the MCP (Model Context Protocol) server for
// panorama patch generation.
//
// This package provides a JSON-RPC 2.0 server that exposes the patch pipeline
// through the MCP protocol, so an agent can inspect panoramas, cut calibrated
// pinhole patches from them and recalibrate error thresholds without a shell.
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
// Panorama Information:
//   - sphere_info: Size, format and sphere camera of a panorama
//   - sphere_sample: Interpolated color in a lon/lat direction
//   - sphere_measure: Great-circle angle between two panorama pixels
//
// Patch Generation:
//   - sphere_generate_patches: Write patches for a cube, grid or explicit view layout
//   - sphere_cubemap: Write the six cube faces
//   - sphere_footprint: Draw planned patch outlines onto the panorama
//
// Calibration Helpers:
//   - sphere_convert_error: Convert thresholds between image, camera and sphere planes
//   - sphere_focal_length: Pinhole focal length for a field of view
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded panoramas keyed by path,
// so repeated calls on the same panorama decode it once. The cache persists
// for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A request line that is not JSON gets a -32700 parse error with a null id and
// the session continues with the next line.
//
// Patches that fail individually (a write error, say) do not fail the call;
// they are listed under "failures" in the sphere_generate_patches result.
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
