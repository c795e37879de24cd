package flatline

import "time"

// Status represents the outcome of a device's most recent poll cycle.
//
// Status is a string type that can hold one of three predefined values:
// [StatusOK], [StatusStalled], or [StatusUnreachable]. Using a string type
// allows for easy JSON serialization and human-readable logging while
// maintaining type safety through the defined constants.
type Status string

const (
	// StatusOK indicates the device answered its status poll and produced
	// new accepted shares since the previous successful poll (or this was
	// the first successful poll).
	StatusOK Status = "ok"

	// StatusStalled indicates the device answered its status poll but its
	// accepted-share count did not change, so a restart was attempted.
	StatusStalled Status = "stalled"

	// StatusUnreachable indicates the status poll failed: network error,
	// timeout, or a non-2xx response.
	StatusUnreachable Status = "unreachable"
)

// String returns the string representation of the status.
// This implements the fmt.Stringer interface.
func (s Status) String() string {
	return string(s)
}

// DeviceStatus holds the outcome of one device poll cycle.
//
// DeviceStatus is immutable after creation. Optional readings are
// pointers; nil means the device did not report the value.
type DeviceStatus struct {
	// IP is the polled device's address.
	IP string

	// Hostname is the device-reported hostname, empty until the first
	// successful poll reveals it.
	Hostname string

	// Status is the outcome of the cycle.
	Status Status

	// HashRate is the reported hash rate in GH/s.
	HashRate *float64

	// ASICTemp is the ASIC temperature in °C.
	ASICTemp *float64

	// VRTemp is the voltage regulator temperature in °C.
	VRTemp *float64

	// SharesAccepted is the accepted share count from the last successful
	// poll of this device.
	SharesAccepted uint64

	// UptimeSeconds is the device uptime in seconds.
	UptimeSeconds *int64

	// Restarts is the number of restart commands issued to this device
	// since its monitor loop started.
	Restarts int

	// CheckedAt is the timestamp of the poll attempt.
	CheckedAt time.Time

	// Error is the failure detail for unreachable cycles, empty otherwise.
	Error string
}
