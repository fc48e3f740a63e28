// Package runlog accumulates the human-readable trace of a single run. Every
// line is mirrored into zerolog for the console and kept in order so the
// final notification can include the most recent entries.
package runlog

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type Log struct {
	logger zerolog.Logger

	mu    sync.Mutex
	lines []string
}

func New(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Info(format string, args ...any) {
	l.add(zerolog.InfoLevel, "ℹ️", format, args...)
}

func (l *Log) Success(format string, args ...any) {
	l.add(zerolog.InfoLevel, "✅", format, args...)
}

func (l *Log) Error(format string, args ...any) {
	l.add(zerolog.ErrorLevel, "❌", format, args...)
}

func (l *Log) Warn(format string, args ...any) {
	l.add(zerolog.WarnLevel, "⚠️", format, args...)
}

// Step marks the beginning of one of the run's numbered stages.
func (l *Log) Step(format string, args ...any) {
	l.add(zerolog.InfoLevel, "🔹", format, args...)
}

func (l *Log) add(level zerolog.Level, icon, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.logger.WithLevel(level).Msg(msg)

	l.mu.Lock()
	l.lines = append(l.lines, icon+" "+msg)
	l.mu.Unlock()
}

func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Tail returns the most recent n lines, fewer when the log is shorter.
func (l *Log) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.lines) {
		n = len(l.lines)
	}
	out := make([]string, n)
	copy(out, l.lines[len(l.lines)-n:])
	return out
}
