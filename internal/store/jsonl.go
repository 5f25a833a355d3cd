package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// maxLine bounds one JSONL line; station snapshots can be large.
const maxLine = 4 << 20

// JSONL is a Writer backed by an append-only JSONL file. The file is synced
// after every Append so a killed process leaves a readable capture.
type JSONL struct {
	file  *os.File
	mu    sync.Mutex
	path  string
	count int
	now   func() time.Time
}

// OpenJSONL opens (or creates) the capture at path for appending. The
// parent directory is created if it does not exist.
func OpenJSONL(path string) (*JSONL, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	return &JSONL{file: f, path: path, now: time.Now}, nil
}

// Path returns the capture file path.
func (j *JSONL) Path() string { return j.path }

// Count returns how many events were appended through this handle.
func (j *JSONL) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Append serializes ev as a JSON line, writes it to the file, and syncs.
// Events without a timestamp are stamped with the capture time. It is safe
// to call from multiple goroutines.
func (j *JSONL) Append(ev transit.Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = j.now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	j.count++
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadEvents reads a JSONL capture. Malformed lines are logged, counted in
// the returned Summary and skipped.
func ReadEvents(r io.Reader) ([]transit.Event, Summary, error) {
	var events []transit.Event
	skipped := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ev transit.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			slog.Warn("store: skipping malformed line", "line", line, "error", err)
			skipped++
			continue
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, Summary{}, fmt.Errorf("store: read line %d: %w", line+1, err)
	}

	sum := Summarize(events)
	sum.Skipped = skipped
	return events, sum, nil
}

// ReadFile reads the capture at path.
func ReadFile(path string) ([]transit.Event, Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadEvents(f)
}

// Tee forwards events from in to the returned channel, appending each one
// to w first. Append failures are logged once and recording stops; events
// keep flowing. The returned channel closes when in closes or ctx is done.
func Tee(ctx context.Context, in <-chan transit.Event, w Writer, logger *slog.Logger) <-chan transit.Event {
	out := make(chan transit.Event)
	go func() {
		defer close(out)
		recording := true
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				if recording {
					if err := w.Append(ev); err != nil {
						logger.Error("event capture stopped", "error", err)
						recording = false
					}
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
