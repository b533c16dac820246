// Package logger builds the zap logger and keeps recent lines for display.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/cubes.log"

// DefaultKeep is how many recent lines the in-memory buffer holds.
const DefaultKeep = 200

// Options configure New.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string
	// Path is the JSON log file; empty disables file output. Entries are appended.
	Path string
	// Console receives human-readable output; nil means stderr.
	Console io.Writer
	// Keep bounds the in-memory line buffer; zero means DefaultKeep.
	Keep int
}

// Logger is a zap logger that also keeps the most recent lines in memory for on-screen display.
type Logger struct {
	*zap.Logger

	level   zap.AtomicLevel
	session string
	file    *os.File

	mu    sync.Mutex
	lines []string
	keep  int
}

// ParseLevel accepts zap level names, case-insensitively. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return lvl, fmt.Errorf("logger: %w", err)
	}
	return lvl, nil
}

// New builds the logger, creating the log directory if needed. Every entry carries a session id.
func New(opts Options) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	keep := opts.Keep
	if keep <= 0 {
		keep = DefaultKeep
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	l := &Logger{
		level:   zap.NewAtomicLevelAt(lvl),
		session: uuid.NewString(),
		keep:    keep,
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), l.level),
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(f), l.level))
	}

	l.Logger = zap.New(zapcore.NewTee(cores...), zap.Hooks(l.remember)).
		With(zap.String("session", l.session))
	return l, nil
}

// remember stores a short form of every written entry.
func (l *Logger) remember(e zapcore.Entry) error {
	line := "[" + e.Time.Format("15:04:05") + "] " + e.Level.CapitalString() + " "
	if e.LoggerName != "" {
		line += e.LoggerName + ": "
	}
	line += e.Message

	l.mu.Lock()
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.keep; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
	l.mu.Unlock()
	return nil
}

// Lines returns a copy of the most recent lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Session is the id attached to every entry of this process.
func (l *Logger) Session() string { return l.session }

// SetLevel changes the minimum level of all outputs.
func (l *Logger) SetLevel(lvl zapcore.Level) { l.level.SetLevel(lvl) }

// Level reports the current minimum level.
func (l *Logger) Level() zapcore.Level { return l.level.Level() }

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
