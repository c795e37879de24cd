package logfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// CompressPrevious gzips the previous day's log file for one device.
//
// This is a one-shot startup maintenance action, not part of the polling
// cycle. The file "<stem>-<yesterday>.log" in dir is compressed to a
// sibling ".log.gz" and the original removed. Nothing happens when the
// file is absent or a compressed copy already exists.
func CompressPrevious(dir, stem string, now time.Time) error {
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", stem, yesterday))

	if _, err := os.Stat(path); err != nil {
		return nil // nothing to rotate
	}

	gzPath := path + ".gz"
	if _, err := os.Stat(gzPath); err == nil {
		return nil // already compressed
	}

	if err := gzipFile(path, gzPath); err != nil {
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s after compression: %w", path, err)
	}
	return nil
}

// DeleteOld removes one device's log files older than the retention
// window.
//
// Files named "<stem>-<date>.log" or ".log.gz" in dir whose date is more
// than maxAgeDays before now are deleted. Files whose date cannot be
// parsed are left alone. maxAgeDays <= 0 disables deletion.
func DeleteOld(dir, stem string, maxAgeDays int, now time.Time) error {
	if maxAgeDays <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, stem+"-*.log*"))
	if err != nil {
		return fmt.Errorf("failed to list log files: %w", err)
	}

	cutoff := now.AddDate(0, 0, -maxAgeDays)
	for _, path := range matches {
		date, ok := fileDate(filepath.Base(path), stem)
		if !ok {
			continue
		}
		if date.Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete %s: %w", path, err)
			}
		}
	}
	return nil
}

// RemoveEmptyDay deletes stem's log file for the current date if it
// exists and is empty.
//
// Used when a device's hostname is discovered: the placeholder file
// created under the provisional stem is no longer needed unless lines
// were already written to it.
func RemoveEmptyDay(dir, stem string, now time.Time) error {
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", stem, now.Format(dateLayout)))

	info, err := os.Stat(path)
	if err != nil {
		return nil // nothing to remove
	}
	if info.Size() != 0 {
		return nil // keep files that already hold lines
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// fileDate extracts the date embedded in a log file name.
func fileDate(base, stem string) (time.Time, bool) {
	rest, found := strings.CutPrefix(base, stem+"-")
	if !found {
		return time.Time{}, false
	}
	rest = strings.TrimSuffix(rest, ".gz")
	rest = strings.TrimSuffix(rest, ".log")

	date, err := time.Parse(dateLayout, rest)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// gzipFile compresses src into dst.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
