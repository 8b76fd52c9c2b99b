// Package server implements the MCP (Model Context Protocol) server for media
// resolution.
//
// The server exposes the media handler to MCP clients so that tools and agents
// can resolve asset references into renditions, URLs and markup the same way a
// page component does.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0 as implemented by the
// MCP Go SDK. Stdout is reserved for the protocol; logs go to stderr.
//
// # Available Tools
//
//   - media_resolve: Resolve a reference or component resource into a rendition,
//     URL and markup
//   - media_asset: Describe an asset (title, description, alt text, original size)
//   - media_uri_template: Build URI templates for client-side scaling
//   - media_formats: List the configured media formats
//
// # Error Handling
//
// Invalid arguments and store failures are returned as tool errors. A request
// that is well formed but cannot be resolved is not an error: media_resolve
// reports valid=false together with the reason.
//
// # Logging
//
// Each tool call gets a request id that is attached to every log line written
// while the call runs.
//
// # Usage
//
//	srv := server.New(h, server.WithLogger(log))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal().Err(err).Send()
//	}
package server
