// Package logger keeps session log files bounded in size.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultMaxLines is used when a rotator is created without a positive line limit.
const DefaultMaxLines = 50000

// LogRotator writes through to a session log file and trims it to the newest maxLines
// lines once twice that many have been written. Trimming rewrites the file atomically.
type LogRotator struct {
	mu       sync.Mutex
	writer   io.Writer
	path     string
	recent   *lineRing
	pending  int // Lines written since the last trim
	maxLines int
}

// NewLogRotator wraps writer, which must append to the file at path.
func NewLogRotator(writer io.Writer, maxLines int, path string) *LogRotator {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	return &LogRotator{
		writer:   writer,
		path:     path,
		recent:   newLineRing(maxLines),
		maxLines: maxLines,
	}
}

// Write implements io.Writer.
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.writer.Write(p)
	if err != nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		r.recent.push(line)
		r.pending++

		if r.pending < r.maxLines*2 {
			continue
		}
		if err := r.trim(); err != nil {
			return n, fmt.Errorf("failed to rotate log file: %w", err)
		}
		r.pending = r.recent.len()
	}

	return n, nil
}

// trim replaces the log file with the retained lines and reopens it for appending.
func (r *LogRotator) trim() error {
	lines := r.recent.snapshot()
	if len(lines) == 0 {
		return nil
	}

	tempPath, err := writeTemp(filepath.Dir(r.path), lines)
	if err != nil {
		return err
	}

	if closer, ok := r.writer.(io.Closer); ok {
		_ = closer.Close()
	}

	// Windows refuses to rename over an existing file
	_ = os.Remove(r.path)
	if err := os.Rename(tempPath, r.path); err != nil {
		return err
	}

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	r.writer = file
	return nil
}

func writeTemp(dir string, lines []string) (string, error) {
	temp, err := os.CreateTemp(dir, "temp-log-")
	if err != nil {
		return "", err
	}

	w := bufio.NewWriter(temp)
	for _, line := range lines {
		_, _ = w.WriteString(line)
		_ = w.WriteByte('\n')
	}

	err = w.Flush()
	if err == nil {
		err = temp.Sync()
	}
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(temp.Name())
		return "", err
	}

	return temp.Name(), nil
}

// lineRing holds the newest lines up to its capacity.
type lineRing struct {
	lines []string
	next  int
	full  bool
}

func newLineRing(capacity int) *lineRing {
	return &lineRing{lines: make([]string, capacity)}
}

func (b *lineRing) push(line string) {
	b.lines[b.next] = line
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
}

func (b *lineRing) len() int {
	if b.full {
		return len(b.lines)
	}
	return b.next
}

// snapshot returns the retained lines oldest first.
func (b *lineRing) snapshot() []string {
	if !b.full {
		return append([]string(nil), b.lines[:b.next]...)
	}
	return append(append([]string(nil), b.lines[b.next:]...), b.lines[:b.next]...)
}
