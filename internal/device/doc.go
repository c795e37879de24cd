// Package device provides the HTTP client for Bitaxe-class miner APIs.
//
// This package is internal to Flatline and handles all communication with
// a monitored device: fetching the system info snapshot and issuing the
// remote restart command.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with bounded timeouts and body limits
//   - [SystemInfo]: Decoded /api/system/info response with documented defaults
//   - [UnreachableError]: A status fetch failed (network, timeout, or non-2xx)
//   - [RestartError]: A restart command was not acknowledged with HTTP 200
//
// Users of the flatline library should not need to interact with this
// package directly.
package device
