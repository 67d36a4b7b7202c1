// Package log keeps the command log: output that operators did not receive on
// their immediate channel, stored as hourly zstd-compressed JSON lines.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelhouse.ai/internal/sim/world"
)

const commandPrefix = "commands"

// hourKey names the file that an entry written at t belongs to.
func hourKey(t time.Time) string { return t.UTC().Format("2006-01-02-15") }

type hourlyFile struct {
	f   *os.File
	enc *zstd.Encoder
	buf *bufio.Writer
}

func openHourly(path string) (*hourlyFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &hourlyFile{f: f, enc: enc, buf: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (h *hourlyFile) close() error {
	return errors.Join(h.buf.Flush(), h.enc.Close(), h.f.Close())
}

// Writer appends JSON lines to <dir>/<prefix>-<hour>.jsonl.zst, switching
// files when the UTC hour changes. Each Write is flushed through the encoder.
type Writer struct {
	dir    string
	prefix string
	now    func() time.Time

	mu    sync.Mutex
	hour  string
	cur   *hourlyFile
	lines uint64
}

func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix, now: time.Now}
}

func (w *Writer) path(hour string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

func (w *Writer) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if hour := hourKey(w.now()); hour != w.hour || w.cur == nil {
		if err := w.switchLocked(hour); err != nil {
			return err
		}
	}
	if _, err := w.cur.buf.Write(b); err != nil {
		return err
	}
	if err := w.cur.buf.Flush(); err != nil {
		return err
	}
	if err := w.cur.enc.Flush(); err != nil {
		return err
	}
	w.lines++
	return nil
}

// Lines reports how many entries were written since the writer was created.
func (w *Writer) Lines() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lines
}

func (w *Writer) switchLocked(hour string) error {
	if w.cur != nil {
		err := w.cur.close()
		w.cur = nil
		if err != nil {
			return err
		}
	}
	h, err := openHourly(w.path(hour))
	if err != nil {
		return err
	}
	w.cur, w.hour = h, hour
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return nil
	}
	err := w.cur.close()
	w.cur = nil
	return err
}

// CommandLogger is the world's persistent sink for batch failures and
// oversized batch acknowledgments.
type CommandLogger struct{ w *Writer }

func NewCommandLogger(worldDir string) *CommandLogger {
	return &CommandLogger{w: NewWriter(filepath.Join(worldDir, commandPrefix), commandPrefix)}
}

// WriteCommandLog stamps entries that arrive without a time.
func (l *CommandLogger) WriteCommandLog(e world.CommandLogEntry) error {
	if e.Time == "" {
		e.Time = l.w.now().UTC().Format(time.RFC3339Nano)
	}
	return l.w.Write(e)
}

// Files lists this logger's files, oldest first.
func (l *CommandLogger) Files() ([]string, error) { return Files(l.w.dir, commandPrefix) }

func (l *CommandLogger) Close() error { return l.w.Close() }
