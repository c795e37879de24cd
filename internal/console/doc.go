// Package console provides pure formatting for device status output.
//
// This package is internal to Flatline and turns structured status records
// into the colored console lines the monitor prints each cycle. It has no
// state: every function maps inputs to a string.
//
// The main components are:
//
//   - [Record]: Structured snapshot of one device poll
//   - [StatusLine]: Renders a Record as an ANSI-colored console line
//   - [StripANSI]: Removes ANSI escape sequences before a line is persisted
//
// Users of the flatline library should not need to interact with this
// package directly.
package console
