package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reader reads JSONL transcript files, including live tailing of files
// still being appended to.
type Reader struct {
	path    string
	file    *os.File
	pending []byte // partial trailing line held between tail reads
}

// NewReader opens a transcript file for reading.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &Reader{path: path, file: file}, nil
}

// Path returns the file path being read.
func (r *Reader) Path() string {
	return r.path
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadAll reads every entry in the transcript.
// Malformed lines are skipped.
func (r *Reader) ReadAll() ([]Entry, error) {
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to start: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(r.file)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	return entries, nil
}

// Tail follows the transcript and sends newly appended entries to the
// returned channel. The channel is closed when the context is cancelled.
// Uses fsnotify for file watching with a polling fallback.
func (r *Reader) Tail(ctx context.Context) <-chan Entry {
	ch := make(chan Entry, 64)

	go func() {
		defer close(ch)

		// Only new content is tailed.
		offset, err := r.file.Seek(0, io.SeekEnd)
		if err != nil {
			return
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			r.tailPolling(ctx, ch, offset)
			return
		}
		defer watcher.Close()

		// Watching the directory is more reliable than watching the file.
		if err := watcher.Add(filepath.Dir(r.path)); err != nil {
			r.tailPolling(ctx, ch, offset)
			return
		}

		r.tailWithWatcher(ctx, ch, watcher, offset)
	}()

	return ch
}

func (r *Reader) tailWithWatcher(ctx context.Context, ch chan<- Entry, watcher *fsnotify.Watcher, offset int64) {
	baseName := filepath.Base(r.path)
	reader := bufio.NewReader(r.file)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) {
				continue
			}

			offset = r.resetIfTruncated(reader, offset)

			var alive bool
			offset, alive = r.emitNewEntries(ctx, reader, ch, offset)
			if !alive {
				return
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Watcher errors are usually recoverable; keep tailing.
		}
	}
}

func (r *Reader) tailPolling(ctx context.Context, ch chan<- Entry, offset int64) {
	reader := bufio.NewReader(r.file)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			offset = r.resetIfTruncated(reader, offset)

			var alive bool
			offset, alive = r.emitNewEntries(ctx, reader, ch, offset)
			if !alive {
				return
			}
		}
	}
}

// resetIfTruncated stats the file and, when it has shrunk below the read
// offset, rewinds to the start so a truncated-and-rewritten transcript is
// picked up instead of tailing past its new end.
func (r *Reader) resetIfTruncated(reader *bufio.Reader, offset int64) int64 {
	info, err := r.file.Stat()
	if err != nil {
		return offset
	}
	if info.Size() >= offset {
		return offset
	}

	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return offset
	}
	r.pending = nil
	reader.Reset(r.file)
	return 0
}

// emitNewEntries reads complete lines appended since the last read and
// sends them, returning the advanced file offset. A trailing partial line
// is held back until the rest arrives. alive is false if the context was
// cancelled.
func (r *Reader) emitNewEntries(ctx context.Context, reader *bufio.Reader, ch chan<- Entry, offset int64) (_ int64, alive bool) {
	for {
		line, err := reader.ReadBytes('\n')
		offset += int64(len(line))
		if err != nil {
			r.pending = append(r.pending, line...)
			return offset, true
		}
		if len(r.pending) > 0 {
			line = append(r.pending, line...)
			r.pending = nil
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}

		select {
		case ch <- e:
		case <-ctx.Done():
			return offset, false
		}
	}
}
