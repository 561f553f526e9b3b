package exec

import (
	"HelpdeskAdmin/internal/logger"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Cmd describes a host command to run.
type Cmd struct {
	Dir  string
	Name string
	Args []string
}

// String renders the command line for logging.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}

// RunAndLog executes a command, captures its combined output, logs each line,
// and returns the output.
//
// Parameters:
//   - runningNoticeType: level for the "Running: ..." message ("notice", "info", etc.). Empty string to skip.
//   - outputNoticeType: level for output lines. May carry a prefix like "artisan:info". Empty string to skip.
//   - errorNoticeType: level for errors. Empty string to skip.
//   - errorMessage: message logged on failure
func RunAndLog(ctx context.Context, runningNoticeType, outputNoticeType, errorNoticeType, errorMessage string, c Cmd) (string, error) {
	cmdText := c.String()

	if runningNoticeType != "" {
		logByType(ctx, runningNoticeType, "Running: %s", cmdText)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	var outputBuf bytes.Buffer
	cmd.Stdout = &outputBuf
	cmd.Stderr = &outputBuf

	err := cmd.Run()
	output := outputBuf.String()

	if outputNoticeType != "" && outputBuf.Len() > 0 {
		// "artisan:notice" -> prefix="artisan:", type="notice"
		prefix := ""
		noticeType := outputNoticeType
		if strings.Contains(outputNoticeType, ":") {
			parts := strings.SplitN(outputNoticeType, ":", 2)
			prefix = parts[0] + ":"
			noticeType = parts[1]
		}

		scanner := bufio.NewScanner(&outputBuf)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if prefix != "" {
				logByType(ctx, noticeType, "%s %s", prefix, line)
			} else {
				logByType(ctx, noticeType, "%s", line)
			}
		}
	}

	if err != nil {
		if errorNoticeType != "" && errorMessage != "" {
			logByType(ctx, errorNoticeType, errorMessage)
			logByType(ctx, errorNoticeType, "Failing command: %s", cmdText)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output, fmt.Errorf("command %q: %w", cmdText, ctxErr)
		}
		return output, fmt.Errorf("command failed: %w", err)
	}

	return output, nil
}

// logByType logs a message with the logger function matching noticeType
func logByType(ctx context.Context, noticeType string, format string, args ...any) {
	switch strings.ToLower(noticeType) {
	case "notice":
		logger.Notice(ctx, format, args...)
	case "info":
		logger.Info(ctx, format, args...)
	case "warn", "warning":
		logger.Warn(ctx, format, args...)
	case "error":
		logger.Error(ctx, format, args...)
	case "debug":
		logger.Debug(ctx, format, args...)
	case "trace":
		logger.Trace(ctx, format, args...)
	default:
		logger.Notice(ctx, format, args...)
	}
}

// RunCommandOutput executes a command without logging and returns its combined output.
func RunCommandOutput(ctx context.Context, c Cmd) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	output, err := cmd.CombinedOutput()
	return string(output), err
}
