package gen

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Writer emits the generated typings of a unit to disk and tracks write
// metrics across runs. It is safe for use from concurrent regeneration
// triggers.
type Writer struct {
	unit *Unit

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks emission performance.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
	GenerateTime   int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// NewWriter creates a writer for the given unit.
func NewWriter(u *Unit) *Writer {
	return &Writer{unit: u, metrics: &WriterMetrics{}}
}

// Metrics returns the accumulated write metrics.
func (w *Writer) Metrics() *WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := *w.metrics
	return &m
}

// Write generates the unit and writes the result to the configured target
// path, creating parent directories as needed. A target whose on-disk
// content already matches the generated output is left untouched, so file
// watchers observing the output directory do not retrigger.
func (w *Writer) Write(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := w.unit.cfg.Target
	if target == "" {
		return NewConfigError("target", target, "output path cannot be empty")
	}

	genStart := time.Now()
	out, err := w.unit.Generate()
	if err != nil {
		return err
	}
	genElapsed := time.Since(genStart)

	data := []byte(out)
	writeStart := time.Now()
	if prev, err := os.ReadFile(target); err == nil && bytes.Equal(prev, data) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.metrics.GenerateTime += genElapsed.Nanoseconds()
		w.mu.Unlock()
		slog.Debug("typings unchanged", "target", target)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return NewGenerationError("write", target, "create output directory", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return NewGenerationError("write", target, "write typings file", err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(data))
	w.metrics.GenerateTime += genElapsed.Nanoseconds()
	w.metrics.WriteTime += time.Since(writeStart).Nanoseconds()
	w.mu.Unlock()

	slog.Info("typings written",
		"target", target,
		"entities", len(w.unit.types),
		"bytes", len(data),
	)
	return nil
}
