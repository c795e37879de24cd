// Package logfile provides per-device per-day log files for Flatline.
//
// This package is internal to Flatline and owns everything about persisted
// device output:
//
//   - [Writer]: Echoes each line to the console and appends it, with ANSI
//     decoration stripped, to the device's log file for the current date
//   - [CompressPrevious]: Startup gzip of the previous day's file
//   - [DeleteOld]: Startup deletion of files past the retention window
//   - [RemoveEmptyDay]: Cleanup of the provisional-stem placeholder once
//     the device's hostname is known
//
// Rotation and retention run when a monitor loop starts and once more if
// the file stem changes after the first successful poll, so they always
// cover the stem the device's files actually carry.
//
// A Writer is owned by exactly one monitor loop, so no locking is needed:
// two loops never share a device and therefore never share a file.
package logfile
