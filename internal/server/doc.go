// Package server provides the optional HTTP status API for Flatline.
//
// This package is internal to Flatline and serves a single route:
//
//   - GET /api/status: JSON snapshot of every monitored device's latest state
//
// The server is off by default and only started when a status port is
// configured. It supports graceful shutdown via context cancellation,
// with a 5-second timeout for in-flight requests.
//
// Users of the flatline library should not need to interact with this
// package directly. The server is started automatically by
// [flatline.Monitor.Start] when enabled.
package server
