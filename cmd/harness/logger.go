// Command lfseq-harness drives lfseq's disciplines from the command line
// so their concurrency behavior can be exercised outside of go test: pick
// a discipline, spawn readers and writers against it, and report whether
// the fix-point drain matches what the writers pushed.
package main

import (
	"fmt"
	"log"
	"os"
)

// harnessLogger is a small leveled, prefixed, stdout-only logger. The
// harness has no external logging backend to wire, so this stays a thin
// wrapper over the standard logger rather than a framework.
type harnessLogger struct {
	level  int
	logger *log.Logger
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

func newLogger(levelName string) *harnessLogger {
	return &harnessLogger{
		level:  parseLevel(levelName),
		logger: log.New(os.Stdout, "", log.Ltime),
	}
}

func parseLevel(name string) int {
	switch name {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *harnessLogger) Debugf(format string, args ...any) {
	if l.level <= levelDebug {
		l.log("DEBUG", format, args...)
	}
}

func (l *harnessLogger) Infof(format string, args ...any) {
	if l.level <= levelInfo {
		l.log("INFO", format, args...)
	}
}

func (l *harnessLogger) Warnf(format string, args ...any) {
	if l.level <= levelWarn {
		l.log("WARN", format, args...)
	}
}

func (l *harnessLogger) Errorf(format string, args ...any) {
	if l.level <= levelError {
		l.log("ERROR", format, args...)
	}
}

func (l *harnessLogger) log(levelStr, format string, args ...any) {
	l.logger.Printf("%-5s | %s", levelStr, fmt.Sprintf(format, args...))
}
