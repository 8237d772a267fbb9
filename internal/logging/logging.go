package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a run-scoped log sink.
type Options struct {
	Path  string
	Level string
	// Tee receives a copy of every line, e.g. stderr in verbose mode.
	Tee io.Writer
}

// Sink owns the log file for one run. Close flushes and releases it.
type Sink struct {
	Logger zerolog.Logger
	file   *os.File
}

// Open creates the log file (and its directory) in append mode. An empty
// path logs to Tee only, or nowhere when Tee is nil.
func Open(opts Options) (*Sink, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var (
		writers []io.Writer
		file    *os.File
	)
	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, plainWriter(file))
	}
	if opts.Tee != nil {
		writers = append(writers, plainWriter(opts.Tee))
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Sink{Logger: logger, file: file}, nil
}

func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return err
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// ParseLevel maps a settings value to a zerolog level; empty means info.
func ParseLevel(value string) (zerolog.Level, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", value, err)
	}
	return level, nil
}

func plainWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
}
