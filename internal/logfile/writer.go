package logfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jpalmerr/flatline/internal/console"
)

// dateLayout is the date embedded in per-day log file names.
const dateLayout = "2006-01-02"

// Writer writes device status lines to the console and, optionally, to a
// per-device per-day log file.
//
// The console always receives the line as given (colors included); the
// file receives it with ANSI escapes stripped. When the target is a
// directory, the file name is "<stem>-<date>.log" where the stem is the
// device hostname once known, or "unknown-<ip>" (dots replaced with
// underscores) before that. Appends are the only file mutation.
//
// A Writer belongs to a single monitor loop and is not safe for
// concurrent use.
type Writer struct {
	console io.Writer
	target  string // file or directory; empty disables file logging
	stem    string
	now     func() time.Time
}

// NewWriter creates a [Writer] for one device.
//
// console receives every line (pass os.Stdout in production). target is a
// log directory, an explicit file path, or empty to disable file logging.
// The initial file stem is derived from the IP; call [Writer.SetHostname]
// once the device reports its hostname.
func NewWriter(consoleOut io.Writer, target, ip string) *Writer {
	return &Writer{
		console: consoleOut,
		target:  expandHome(target),
		stem:    UnknownStem(ip),
		now:     time.Now,
	}
}

// UnknownStem returns the file stem used before a device's hostname is
// known: "unknown-" plus the IP with dots replaced by underscores.
func UnknownStem(ip string) string {
	return "unknown-" + strings.ReplaceAll(ip, ".", "_")
}

// SetHostname upgrades the file stem to the device's reported hostname.
// Subsequent appends go to the hostname-named file. Empty hostnames are
// ignored.
func (w *Writer) SetHostname(hostname string) {
	if hostname != "" {
		w.stem = hostname
	}
}

// Stem returns the current file stem (hostname or unknown-<ip>).
func (w *Writer) Stem() string {
	return w.stem
}

// Dir returns the directory log files are written to, or "" when file
// logging is disabled.
func (w *Writer) Dir() string {
	if w.target == "" {
		return ""
	}
	if isDir(w.target) {
		return w.target
	}
	return filepath.Dir(w.target)
}

// Log writes a line to the console and appends it to the current log file.
//
// The console write happens unconditionally; file errors are returned so
// the caller can report them, but a file error never suppresses console
// output.
func (w *Writer) Log(line string) error {
	fmt.Fprintln(w.console, line)

	if w.target == "" {
		return nil
	}
	return w.append(console.StripANSI(line) + "\n")
}

// Touch creates the current day's log file (and any needed directories)
// without writing a line. Called when a monitor loop starts so that the
// file exists even if the first poll fails.
func (w *Writer) Touch() error {
	if w.target == "" {
		return nil
	}
	return w.append("")
}

// append opens the day's file in append mode, creating directories as
// needed, and writes text.
func (w *Writer) append(text string) error {
	path, err := w.resolvePath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if text == "" {
		return nil
	}
	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("failed to append to log file: %w", err)
	}
	return nil
}

// resolvePath returns the file to append to for the current date,
// creating parent directories as needed.
func (w *Writer) resolvePath() (string, error) {
	if isDir(w.target) || strings.HasSuffix(w.target, string(os.PathSeparator)) {
		if err := os.MkdirAll(w.target, 0o755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		name := fmt.Sprintf("%s-%s.log", w.stem, w.now().Format(dateLayout))
		return filepath.Join(w.target, name), nil
	}

	// explicit file path
	if dir := filepath.Dir(w.target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return w.target, nil
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
