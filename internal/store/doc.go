// Package store provides storage and pub/sub functionality for device
// statuses.
//
// This package is internal to Flatline and manages the in-memory record of
// each monitored device's last observed state. It implements a
// publish-subscribe pattern: monitor loops publish one update per cycle,
// and consumers (status callbacks, the optional status API) read from it.
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [DeviceStatus]: Storage representation of a device's status
//
// The store is designed for concurrent access with proper synchronization.
// Subscribers receive updates via channels with non-blocking sends (slow
// subscribers will miss updates rather than block the system).
//
// Users of the flatline library should not need to interact with this
// package directly.
package store
