package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path.
// A non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, clean(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	// The ring grows with the file; maxLines is only an upper bound.
	var ring []string
	idx := 0
	for scanner.Scan() {
		line := clean(scanner.Text())
		if len(ring) < maxLines {
			ring = append(ring, line)
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, len(ring))
	for i := range ring {
		lines[i] = ring[(idx+i)%len(ring)]
	}
	return lines, nil
}

// logFile is the subset of *os.File the tailer reads through.
type logFile interface {
	io.ReadSeekCloser
	Stat() (os.FileInfo, error)
}

func openFile(path string) (logFile, error) {
	return os.Open(path)
}

// Tailer incrementally reads complete lines appended to a growing file.
// It is not safe for concurrent use.
type Tailer struct {
	path   string
	cursor int64
	primed bool
	open   func(string) (logFile, error)
}

// New returns a Tailer for path resuming at cursor. A zero cursor is treated
// as unset: the first successful Poll seeks to end-of-file without emitting.
func New(path string, cursor int64) *Tailer {
	if cursor < 0 {
		cursor = 0
	}
	return &Tailer{path: path, cursor: cursor, primed: cursor > 0, open: openFile}
}

// NewFromStart returns a Tailer that emits the file from its first byte.
func NewFromStart(path string) *Tailer {
	return &Tailer{path: path, primed: true, open: openFile}
}

// Path returns the tailed file path.
func (t *Tailer) Path() string {
	return t.path
}

// Cursor returns the byte offset consumed so far.
func (t *Tailer) Cursor() int64 {
	return t.cursor
}

// Poll returns the newline-terminated lines appended since the last call.
// A trailing partial line is left for the next poll. When the file shrank
// below the cursor the cursor moves to the new end and nothing is emitted.
// A read error emits nothing and leaves the cursor where the call started,
// so the same lines come back on the next successful poll.
func (t *Tailer) Poll() ([]string, error) {
	file, err := t.open(t.path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	size := info.Size()

	if !t.primed {
		t.primed = true
		t.cursor = size
		return nil, nil
	}
	if size < t.cursor {
		t.cursor = size
		return nil, nil
	}
	if size == t.cursor {
		return nil, nil
	}

	if _, err := file.Seek(t.cursor, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek log: %w", err)
	}

	reader := bufio.NewReaderSize(io.LimitReader(file, size-t.cursor), 64*1024)
	cursor := t.cursor
	var lines []string
	for {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 && raw[len(raw)-1] == '\n' {
			cursor += int64(len(raw))
			lines = append(lines, clean(string(bytes.TrimRight(raw, "\r\n"))))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.cursor = cursor
				return lines, nil
			}
			return nil, fmt.Errorf("read log: %w", err)
		}
	}
}

// clean drops malformed UTF-8 sequences and a stray carriage return.
func clean(line string) string {
	return strings.ToValidUTF8(strings.TrimSuffix(line, "\r"), "")
}
