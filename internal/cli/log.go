// Package cli implements the imagerows command-line interface.
//
// # Commands
//
// The main commands are:
//   - layout: Justify a listing (JSON or an HTML results page) into rows
//   - align: Justify the thumbnails of an HTML results page in place
//   - render: Render a layout as SVG, PNG, JSON or DOT
//   - partition: Show how a listing splits into groups and rows
//   - preview: Browse a layout's rows in the terminal
//   - serve: Run the HTTP API
//   - store: Manage stored listings
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command's context; status lines for humans go through the
// print helpers in ui.go instead.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps in
// "HH:MM:SS.ms" form (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a multi-step operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time in whole milliseconds, plus any
// key-value pairs: "aligned page (12ms) passes=1".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, formatElapsed(time.Since(p.start))), keyvals...)
}

// formatElapsed renders d truncated to whole milliseconds, so fast
// operations show "0ms" rather than "0s".
func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
