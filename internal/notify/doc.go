// Package notify provides best-effort webhook notification delivery.
//
// This package is internal to Flatline. Notifications are short text
// messages posted as JSON to a configured webhook URL (Discord-compatible
// "content" payload). Delivery is fire-and-forget: errors are returned so
// the caller can log them, but no caller treats them as fatal and nothing
// is retried.
package notify
