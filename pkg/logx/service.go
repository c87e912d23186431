package logx

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Service owns the logging backend and supports live reconfiguration.
// Loggers handed out by Logger() pick up Apply() changes immediately.
type Service struct {
	root atomic.Value // zerolog.Logger

	mu   sync.Mutex
	file *lumberjack.Logger
}

// NewService builds the backend from cfg and returns the service together
// with a live root logger. It never fails: with no sinks configured the
// console writer is used as a fallback.
func NewService(cfg Config) (*Service, Logger) {
	zerolog.TimeFieldFormat = consoleTimeFormat
	zerolog.ErrorFieldName = "err"

	s := &Service{}
	s.Apply(cfg)
	return s, Logger{svc: s}
}

// Apply swaps the backend to match cfg. In-flight loggers keep working and
// see the new sinks/level on their next event. The previous rotating file,
// if any, is closed.
func (s *Service) Apply(cfg Config) {
	lvl := parseLevel(cfg.Level, zerolog.InfoLevel)

	var newFile *lumberjack.Logger
	writers := make([]io.Writer, 0, 2)
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat})
	}
	if cfg.File.Enabled && strings.TrimSpace(cfg.File.Path) != "" {
		maxSize := cfg.File.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 5
		}
		backups := cfg.File.MaxBackups
		if backups <= 0 {
			backups = 3
		}
		newFile = &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    maxSize,
			MaxBackups: backups,
		}
		writers = append(writers, newFile)
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).With().Timestamp().Logger()
	s.root.Store(zl)

	s.mu.Lock()
	old := s.file
	s.file = newFile
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

// Logger returns a live root logger bound to this service.
func (s *Service) Logger() Logger {
	return Logger{svc: s}
}

// Close releases the file sink. The service keeps logging to any remaining
// console sink; callers are expected to stop using it after Close.
func (s *Service) Close() {
	s.mu.Lock()
	old := s.file
	s.file = nil
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

func (s *Service) current() zerolog.Logger {
	if v, ok := s.root.Load().(zerolog.Logger); ok {
		return v
	}
	return zerolog.Nop()
}
