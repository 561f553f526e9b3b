package logger

import (
	"HelpdeskAdmin/internal/version"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	codeReset  = "\033[0m"
	codeBlue   = "\033[34m"
	codeGreen  = "\033[32m"
	codeYellow = "\033[33m"
	codeRed    = "\033[31m"
	codeRedBg  = "\033[41m\033[37m"
)

// Output receives Display output. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

var (
	logFileMu sync.Mutex
	logFile   *lumberjack.Logger
)

// Helper to resolve message from any type to string
func resolveMsg(msg any) string {
	switch v := msg.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, resolveMsg(item))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(v)
	}
}

func log(ctx context.Context, level slog.Level, msg any, args ...any) {
	logAt(ctx, time.Now(), level, msg, args...)
}

// logAt writes one record per message line, all sharing timestamp t.
func logAt(ctx context.Context, t time.Time, level slog.Level, msg any, args ...any) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}

	msgStr := resolveMsg(msg)
	// printf-style args are consumed by the message, anything else stays slog attributes
	if len(args) > 0 && strings.Contains(msgStr, "%") {
		msgStr = fmt.Sprintf(msgStr, args...)
		args = nil
	}

	if !strings.Contains(msgStr, "\n") {
		r := slog.NewRecord(t, level, msgStr, 0)
		r.Add(args...)
		_ = h.Handle(ctx, r)
		return
	}

	lines := strings.Split(msgStr, "\n")
	for i, line := range lines {
		r := slog.NewRecord(t, level, line, 0)
		if i == 0 {
			r.Add(args...)
		}
		_ = h.Handle(ctx, r)
	}
}

// Custom log levels, NOTICE is the default console level
const (
	LevelTrace  = slog.Level(-8)
	LevelDebug  = slog.LevelDebug
	LevelInfo   = slog.Level(-2)
	LevelNotice = slog.LevelInfo
	LevelWarn   = slog.LevelWarn
	LevelError  = slog.LevelError
	LevelFatal  = slog.Level(12)
)

// LevelVar allows dynamic changing of the log level
var LevelVar = new(slog.LevelVar)
var FileLevelVar = new(slog.LevelVar)

func init() {
	LevelVar.Set(LevelNotice)
	FileLevelVar.Set(LevelInfo)
}

func SetLevel(level slog.Level) {
	LevelVar.Set(level)
	// File level should be at least Info, or lower if Debug is requested
	if level < LevelInfo {
		FileLevelVar.Set(level)
	} else {
		FileLevelVar.Set(LevelInfo)
	}
}

func levelLabel(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "[TRACE ]"
	case LevelDebug:
		return "[DEBUG ]"
	case LevelInfo:
		return "[INFO  ]"
	case LevelNotice:
		return "[NOTICE]"
	case LevelWarn:
		return "[WARN  ]"
	case LevelError:
		return "[ERROR ]"
	case LevelFatal:
		return "[FATAL ]"
	default:
		return "[" + level.String() + "]"
	}
}

func levelColor(level slog.Level) string {
	switch level {
	case LevelNotice:
		return codeGreen
	case LevelWarn:
		return codeYellow
	case LevelError:
		return codeRed
	case LevelFatal:
		return codeRedBg
	default:
		return codeBlue
	}
}

// NewLogger builds the console+file logger. An empty logFilePath disables the file handler.
func NewLogger(logFilePath string) *slog.Logger {
	wStderr := os.Stderr
	isTTY := term.IsTerminal(int(wStderr.Fd()))

	replaceAttrConsole := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			level := a.Value.Any().(slog.Level)
			label := levelLabel(level)
			if isTTY {
				label = levelColor(level) + label + codeReset
			}
			a.Value = slog.StringValue(label + "  ")
		}
		return a
	}

	consoleHandler := tint.NewHandler(wStderr, &tint.Options{
		Level:       LevelVar,
		TimeFormat:  "2006-01-02 15:04:05",
		NoColor:     !isTTY,
		ReplaceAttr: replaceAttrConsole,
	})

	handlers := []slog.Handler{consoleHandler}

	if logFilePath != "" {
		if wFile, err := openLogFile(logFilePath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			replaceAttrFile := func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.LevelKey {
					a.Value = slog.StringValue(levelLabel(a.Value.Any().(slog.Level)) + "  ")
				}
				return a
			}
			fileHandler := tint.NewHandler(wFile, &tint.Options{
				Level:       FileLevelVar,
				TimeFormat:  "2006-01-02 15:04:05",
				NoColor:     true,
				ReplaceAttr: replaceAttrFile,
			})
			handlers = append(handlers, fileHandler)
		}
	}

	return slog.New(&FanoutHandler{handlers: handlers})
}

// openLogFile starts a fresh log for this run, keeping earlier runs as
// rotated backups.
func openLogFile(path string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		if err := lj.Rotate(); err != nil {
			return nil, err
		}
	}
	logFileMu.Lock()
	logFile = lj
	logFileMu.Unlock()
	return lj, nil
}

// Cleanup closes the log file opened by NewLogger.
func Cleanup() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// FanoutHandler broadcasts records to multiple handlers
type FanoutHandler struct {
	handlers []slog.Handler
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: newHandlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: newHandlers}
}

// Global helpers for custom levels that don't satisfy standard slog methods
func Trace(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelTrace, msg, args...)
}

func Debug(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelDebug, msg, args...)
}

func Info(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelInfo, msg, args...)
}

func Notice(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelNotice, msg, args...)
}

func Warn(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelWarn, msg, args...)
}

func Error(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelError, msg, args...)
}

// Display prints command output (values, rendered pages) to Output, bypassing log levels.
func Display(ctx context.Context, msg any, args ...any) {
	msgStr := resolveMsg(msg)
	if len(args) > 0 {
		msgStr = fmt.Sprintf(msgStr, args...)
	}
	fmt.Fprintln(Output, msgStr)
}

func getSystemInfo() []string {
	var info []string

	info = append(info, fmt.Sprintf("%s [%s]", version.ApplicationName, version.Version))
	info = append(info, "")

	executable, _ := os.Executable()
	info = append(info, fmt.Sprintf("Currently running as: %s (PID %d)", executable, os.Getpid()))
	info = append(info, "")

	info = append(info, fmt.Sprintf("ARCH:             %s", runtime.GOARCH))
	info = append(info, fmt.Sprintf("OS:               %s", runtime.GOOS))

	currentUser, err := user.Current()
	if err == nil {
		info = append(info, fmt.Sprintf("DETECTED_UNAME:   %s", currentUser.Username))
		info = append(info, fmt.Sprintf("DETECTED_HOMEDIR: %s", currentUser.HomeDir))
	} else {
		info = append(info, fmt.Sprintf("User Info Error: %v", err))
	}

	return info
}

// Fatal logs a message with system information and a stack trace, then panics with FatalError.
func Fatal(ctx context.Context, msg any, args ...any) {
	FatalWithStackSkip(ctx, 1, msg, args...)
}

// FatalWithStackSkip is Fatal with skip extra caller frames dropped from the trace.
func FatalWithStackSkip(ctx context.Context, skip int, msg any, args ...any) {
	now := time.Now()

	pc := make([]uintptr, 32)
	n := runtime.Callers(2+skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var infoLines []string
	for _, i := range getSystemInfo() {
		if i != "" {
			infoLines = append(infoLines, "  "+i)
		} else {
			infoLines = append(infoLines, "")
		}
	}

	var traceLines []string
	for {
		frame, more := frames.Next()
		traceLines = append(traceLines, fmt.Sprintf("  %s:%d (%s)", frame.File, frame.Line, filepath.Base(frame.Function)))
		if !more {
			break
		}
	}

	output := []any{
		"### BEGIN SYSTEM INFORMATION AND STACK TRACE ###",
		infoLines,
		"",
		traceLines,
		"### END SYSTEM INFORMATION AND STACK TRACE ###",
		"",
		msg,
	}

	logAt(ctx, now, LevelFatal, output, args...)

	panic(FatalError{})
}

// FatalNoTrace logs a message at FatalLevel without stack trace and exits
func FatalNoTrace(ctx context.Context, msg any, args ...any) {
	logAt(ctx, time.Now(), LevelFatal, msg, args...)
	panic(FatalError{})
}

// FatalError is a special error used to panic from Fatal logger calls
// This allows the main run loop to recover and perform cleanup before exiting
type FatalError struct{}
