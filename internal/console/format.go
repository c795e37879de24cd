package console

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// ANSI color sequences used in console output. File output is always
// passed through [StripANSI] first, so these never reach disk.
const (
	colorTimestamp = "\033[92m"
	colorHostname  = "\033[96m"
	colorUptime    = "\033[38;5;36m"
	colorHashrate  = "\033[94m"
	colorASICTemp  = "\033[91m"
	colorVRTemp    = "\033[95m"
	colorShares    = "\033[93m"
	colorRestarts  = "\033[96m"
	colorReset     = "\033[0m"
)

// timestampLayout matches the wall-clock format of console status lines.
const timestampLayout = "02 Jan 2006 15:04:05"

// unknown is the sentinel rendered for fields the device did not report.
const unknown = "N/A"

// ansiEscape matches ANSI SGR escape sequences.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Record is a structured snapshot of one device poll, ready for display.
//
// Optional fields are pointers; nil means the device did not report the
// value and it renders as "N/A".
type Record struct {
	// Timestamp is when the poll completed.
	Timestamp time.Time

	// Hostname is the device-reported hostname. Empty renders as "N/A".
	Hostname string

	// HashRate is the reported hash rate in GH/s.
	HashRate *float64

	// ASICTemp is the ASIC temperature in °C.
	ASICTemp *float64

	// VRTemp is the voltage regulator temperature in °C.
	VRTemp *float64

	// Shares is the accepted share count.
	Shares uint64

	// Uptime is the device uptime in seconds.
	Uptime *int64

	// Restarts is the number of restarts this monitor has issued.
	Restarts int
}

// StatusLine renders a [Record] as a single ANSI-colored console line.
//
// StatusLine is a pure function: the same record always produces the same
// string. The colors are display-only; callers persisting the line must
// strip them with [StripANSI].
func StatusLine(r Record) string {
	return fmt.Sprintf("%s[%s]%s Host: %s%s%s | Uptime: %s%s%s | Hash: %s%s GH/s%s | ASIC: %s%s°C%s | VR: %s%s°C%s | Shares: %s%d%s | Restarts: %s%d%s",
		colorTimestamp, r.Timestamp.Format(timestampLayout), colorReset,
		colorHostname, orUnknown(r.Hostname), colorReset,
		colorUptime, Uptime(r.Uptime), colorReset,
		colorHashrate, HashRate(r.HashRate), colorReset,
		colorASICTemp, ASICTemp(r.ASICTemp), colorReset,
		colorVRTemp, VRTemp(r.VRTemp), colorReset,
		colorShares, r.Shares, colorReset,
		colorRestarts, r.Restarts, colorReset,
	)
}

// Uptime renders an uptime in seconds as H:MM:SS (days folded into hours
// beyond 24h as e.g. "26:03:09"). A nil value renders as "N/A".
func Uptime(seconds *int64) string {
	if seconds == nil || *seconds < 0 {
		return unknown
	}
	s := *seconds
	return fmt.Sprintf("%d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// StripANSI removes ANSI escape sequences from a line.
func StripANSI(line string) string {
	return ansiEscape.ReplaceAllString(line, "")
}

// HashRate renders a hash rate rounded up to one decimal place.
// Rounding up keeps a barely-alive device from displaying as 0.0.
func HashRate(v *float64) string {
	if v == nil {
		return unknown
	}
	return strconv.FormatFloat(math.Ceil(*v*10)/10, 'f', 1, 64)
}

// ASICTemp renders the ASIC temperature rounded to one decimal place.
func ASICTemp(v *float64) string {
	if v == nil {
		return unknown
	}
	return strconv.FormatFloat(math.Round(*v*10)/10, 'f', 1, 64)
}

// VRTemp renders the VR temperature as reported, without rounding.
func VRTemp(v *float64) string {
	if v == nil {
		return unknown
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// orUnknown substitutes the unknown sentinel for an empty string.
func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
