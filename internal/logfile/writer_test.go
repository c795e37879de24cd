package logfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fixedTime pins a Writer's clock for deterministic file names.
func fixedTime(w *Writer, t time.Time) {
	w.now = func() time.Time { return t }
}

func TestWriter_Log_ConsoleKeepsColorsFileDoesNot(t *testing.T) {
	dir := t.TempDir()
	var consoleOut bytes.Buffer

	w := NewWriter(&consoleOut, dir, "192.168.1.50")
	fixedTime(w, time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC))

	colored := "\033[92m[31 Aug 2026 12:00:00]\033[0m Host: \033[96maxe\033[0m"
	if err := w.Log(colored); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if !strings.Contains(consoleOut.String(), "\033[92m") {
		t.Error("console output should keep ANSI colors")
	}

	data, err := os.ReadFile(filepath.Join(dir, "unknown-192_168_1_50-2026-08-31.log"))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if strings.Contains(string(data), "\033") {
		t.Errorf("file output contains ANSI escapes: %q", data)
	}
	if !strings.Contains(string(data), "[31 Aug 2026 12:00:00] Host: axe") {
		t.Errorf("file missing stripped line: %q", data)
	}
}

func TestWriter_Log_AppendsOnly(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&bytes.Buffer{}, dir, "10.0.0.2")
	fixedTime(w, time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC))

	for _, line := range []string{"first", "second", "third"} {
		if err := w.Log(line); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "unknown-10_0_0_2-2026-08-31.log"))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if string(data) != "first\nsecond\nthird\n" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestWriter_SetHostname_UpgradesStem(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&bytes.Buffer{}, dir, "192.168.1.50")
	fixedTime(w, time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC))

	if err := w.Log("before discovery"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	w.SetHostname("bitaxe-garage")
	if err := w.Log("after discovery"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "unknown-192_168_1_50-2026-08-31.log")); err != nil {
		t.Error("pre-discovery file missing")
	}
	data, err := os.ReadFile(filepath.Join(dir, "bitaxe-garage-2026-08-31.log"))
	if err != nil {
		t.Fatalf("post-discovery file missing: %v", err)
	}
	if !strings.Contains(string(data), "after discovery") {
		t.Errorf("unexpected contents: %q", data)
	}

	// empty hostname must not clobber the stem
	w.SetHostname("")
	if w.Stem() != "bitaxe-garage" {
		t.Errorf("stem = %q, want bitaxe-garage", w.Stem())
	}
}

func TestWriter_DayBoundaryRollsFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&bytes.Buffer{}, dir, "10.0.0.9")

	day := time.Date(2026, time.August, 30, 23, 59, 0, 0, time.UTC)
	fixedTime(w, day)
	if err := w.Log("late night"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	fixedTime(w, day.Add(2*time.Minute)) // past midnight
	if err := w.Log("early morning"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "unknown-10_0_0_9-2026-08-30.log")); err != nil {
		t.Error("previous day's file missing")
	}
	if _, err := os.Stat(filepath.Join(dir, "unknown-10_0_0_9-2026-08-31.log")); err != nil {
		t.Error("new day's file missing")
	}
}

func TestWriter_ExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "axe.log")

	w := NewWriter(&bytes.Buffer{}, path, "10.0.0.3")
	if err := w.Log("line one"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("explicit file not created: %v", err)
	}
	if string(data) != "line one\n" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestWriter_Touch_CreatesEmptyFileImmediately(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&bytes.Buffer{}, dir, "10.0.0.4")
	fixedTime(w, time.Date(2026, time.August, 31, 0, 30, 0, 0, time.UTC))

	if err := w.Touch(); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "unknown-10_0_0_4-2026-08-31.log"))
	if err != nil {
		t.Fatalf("expected file to exist after Touch: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("Touch wrote %d bytes, want 0", info.Size())
	}
}

func TestWriter_NoTargetIsConsoleOnly(t *testing.T) {
	var consoleOut bytes.Buffer
	w := NewWriter(&consoleOut, "", "10.0.0.5")

	if err := w.Log("console only"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := w.Touch(); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if consoleOut.String() != "console only\n" {
		t.Errorf("console = %q", consoleOut.String())
	}
	if w.Dir() != "" {
		t.Errorf("Dir() = %q, want empty", w.Dir())
	}
}

func TestWriter_TrailingSeparatorForcesDirectoryMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs") + string(os.PathSeparator)
	w := NewWriter(&bytes.Buffer{}, dir, "10.0.0.6")
	fixedTime(w, time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC))

	if err := w.Log("hello"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "unknown-10_0_0_6-2026-08-31.log")); err != nil {
		t.Errorf("expected per-day file inside created directory: %v", err)
	}
}
