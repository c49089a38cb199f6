// Package logger is the compiler's structured log channel, built on slog.
// Until Init is called every function is a no-op.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var defaultLogger *slog.Logger

type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// Init installs the global logger. When LogFile is set it takes precedence
// over Output; the returned closer releases it.
func Init(cfg Config) (io.Closer, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// With returns a child of the global logger, or of slog's default before
// Init.
func With(args ...any) *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger.With(args...)
	}
	return slog.Default().With(args...)
}

// Compiler-specific helpers

func LogPhase(phase string) {
	Debug("Starting compilation phase", "phase", phase)
}

func LogPhaseComplete(phase string, elapsed time.Duration) {
	Debug("Completed compilation phase", "phase", phase, "elapsed", elapsed)
}

func LogLexing(file string, tokenCount int) {
	Debug("Lexing complete", "file", file, "tokens", tokenCount)
}

func LogParsing(file string, nodeCount int) {
	Debug("Parsing complete", "file", file, "nodes", nodeCount)
}

// LogTAC reports one lowered TAC builder, either a procedure body or an
// isolated condition.
func LogTAC(funcName string, instCount, tempCount int) {
	Debug("TAC lowering complete", "function", funcName, "instructions", instCount, "temps", tempCount)
}

func LogCodeGen(funcName string, frameSize int) {
	Debug("Procedure emitted", "function", funcName, "frame", frameSize)
}

// LogCodeGenError reports a generator diagnostic.
func LogCodeGenError(line, col int, msg string) {
	Error("Code generation error", "line", line, "col", col, "message", msg)
}

func LogAssemble(tool, path string) {
	Info("Running assembler", "tool", tool, "file", path)
}

func LogCompilerComplete(success bool, duration time.Duration) {
	if success {
		Info("Compilation successful", "duration", duration)
	} else {
		Error("Compilation failed", "duration", duration)
	}
}
