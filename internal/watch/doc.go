// Package watch implements the per-device monitor loop.
//
// This package is internal to Flatline and contains the heart of the
// system: the poll → detect-stall → restart → notify cycle. One [Loop]
// runs per monitored device, owning that device's private state (the last
// observed accepted-share count and the restart counter). Loops never
// share mutable state, so no synchronization exists between them.
//
// Cycle timing has two states: after a completed poll cycle the loop
// waits the configured interval; after a failed poll it waits a fixed
// shorter recovery interval before retrying. There is no backoff growth,
// no retry cap, and no terminal state: a loop runs until its context is
// cancelled.
//
// Users of the flatline library should not need to interact with this
// package directly.
package watch
