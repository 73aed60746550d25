package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NopSink discards every report.
type NopSink struct{}

// Deliver does nothing.
func (NopSink) Deliver(string, string) {}

// DirSink writes each report to a file in Dir. Failures are logged, not
// returned.
type DirSink struct {
	Dir    string
	Logger *zap.Logger
}

// Deliver writes content to Dir/filename, replacing any existing file.
func (s DirSink) Deliver(content, filename string) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		logger.Warn("Error creating export directory", zap.String("dir", s.Dir), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logger.Warn("Error writing export file", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Debug("Wrote export file", zap.String("path", path), zap.Int("bytes", len(content)))
}

// WriterSink prints each report to W, followed by a newline.
type WriterSink struct {
	W io.Writer
}

// Deliver writes content to W.
func (s WriterSink) Deliver(content, _ string) {
	fmt.Fprintln(s.W, content)
}
