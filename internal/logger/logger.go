// Package logger provides leveled logging for modelout.
//
// Console and file loggers share the "[HH:MM:SS] [LEVEL] message" line format
// and the trace < debug < info < warn < error level order. All
// implementations are safe for concurrent use.
package logger

import (
	"fmt"
	"strings"

	"github.com/harrison/modelout/internal/models"
)

// Logger is the logging surface used by the resolver, server and commands.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogResolution(req models.ResolutionRequest, result *models.ResolutionResult, err error)
}

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ValidLevels lists the accepted log level names in increasing severity
var ValidLevels = []string{"trace", "debug", "info", "warn", "error"}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	for _, l := range ValidLevels {
		if l == normalized {
			return normalized
		}
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// resolutionLines renders a resolution outcome as (level, message) pairs
func resolutionLines(req models.ResolutionRequest, result *models.ResolutionResult, err error) [][2]string {
	if err != nil {
		kind := models.ErrorKind(err)
		if kind == "" {
			kind = "error"
		}
		return [][2]string{{"ERROR", fmt.Sprintf("Resolution failed for %s (%s): %v", req.Model, kind, err)}}
	}
	if result == nil {
		return nil
	}

	lines := [][2]string{{"INFO", fmt.Sprintf("Resolved %s at %s via %s: %d file(s)",
		req.Model, displayTime(req.ValidTime), result.Strategy, len(result.ValidFiles))}}
	for i, f := range result.ValidFiles {
		lines = append(lines, [2]string{"DEBUG", fmt.Sprintf("  %d. %s", i+1, f)})
	}
	return lines
}

func displayTime(validTime string) string {
	if validTime == "" {
		return "any time"
	}
	return validTime
}

// Tee fans every message out to several loggers
type Tee []Logger

// NewTee returns a Tee over the non-nil loggers
func NewTee(loggers ...Logger) Tee {
	var t Tee
	for _, l := range loggers {
		if l != nil {
			t = append(t, l)
		}
	}
	return t
}

func (t Tee) LogTrace(message string) {
	for _, l := range t {
		l.LogTrace(message)
	}
}

func (t Tee) LogDebug(message string) {
	for _, l := range t {
		l.LogDebug(message)
	}
}

func (t Tee) LogInfo(message string) {
	for _, l := range t {
		l.LogInfo(message)
	}
}

func (t Tee) LogWarn(message string) {
	for _, l := range t {
		l.LogWarn(message)
	}
}

func (t Tee) LogError(message string) {
	for _, l := range t {
		l.LogError(message)
	}
}

func (t Tee) LogResolution(req models.ResolutionRequest, result *models.ResolutionResult, err error) {
	for _, l := range t {
		l.LogResolution(req, result, err)
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string) {}
func (n *NoOpLogger) LogDebug(message string) {}
func (n *NoOpLogger) LogInfo(message string)  {}
func (n *NoOpLogger) LogWarn(message string)  {}
func (n *NoOpLogger) LogError(message string) {}

func (n *NoOpLogger) LogResolution(req models.ResolutionRequest, result *models.ResolutionResult, err error) {
}
