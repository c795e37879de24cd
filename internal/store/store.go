package store

import "time"

// DeviceStatus represents the latest observed state of a monitored device.
//
// DeviceStatus is the storage representation of a device's last poll
// cycle, optimized for JSON serialization (used by the status API). It is
// decoupled from the monitor loop's internal types to allow independent
// evolution.
type DeviceStatus struct {
	// IP is the device address; it is the storage key.
	IP string `json:"ip"`

	// Hostname is the device-reported hostname, empty until discovered.
	Hostname string `json:"hostname,omitempty"`

	// Status is the outcome of the last cycle: "ok", "stalled", or
	// "unreachable".
	Status string `json:"status"`

	// HashRate is the reported hash rate in GH/s. nil when unknown.
	HashRate *float64 `json:"hash_rate_ghs"`

	// ASICTemp is the ASIC temperature in °C. nil when unknown.
	ASICTemp *float64 `json:"asic_temp_c"`

	// VRTemp is the voltage regulator temperature in °C. nil when unknown.
	VRTemp *float64 `json:"vr_temp_c"`

	// SharesAccepted is the accepted share count from the last successful
	// poll.
	SharesAccepted uint64 `json:"shares_accepted"`

	// UptimeSeconds is the device uptime. nil when unknown.
	UptimeSeconds *int64 `json:"uptime_seconds"`

	// Restarts is the number of restart commands this monitor has issued
	// to the device.
	Restarts int `json:"restarts"`

	// CheckedAt is the timestamp of the last poll attempt.
	CheckedAt time.Time `json:"checked_at"`

	// Error contains the error message if the last cycle failed.
	Error *string `json:"error"`
}

// Store defines the interface for storing and subscribing to device
// status updates.
//
// Store implementations must be safe for concurrent access: every monitor
// loop publishes to the same store. The pub/sub mechanism feeds status
// callbacks and keeps the status API snapshot current.
type Store interface {
	// Update stores a new device status and notifies all subscribers.
	// The status is keyed by IP, so subsequent updates replace previous values.
	Update(status DeviceStatus)

	// GetAll returns all currently stored device statuses.
	// The returned slice is a snapshot; modifications do not affect the store.
	GetAll() []DeviceStatus

	// Subscribe returns a channel that receives status updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan DeviceStatus

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan DeviceStatus)
}
