// SPDX-License-Identifier: EPL-2.0

// Package log is the category-tagged structured logger used across the
// module. Every record carries a "cat" attribute naming the subsystem.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Category tags the subsystem a record comes from.
type Category string

const (
	CatConfig   Category = "config"
	CatAsset    Category = "asset"
	CatBuffer   Category = "buffer"
	CatSource   Category = "source"
	CatListener Category = "listener"
	CatEffect   Category = "effect"
	CatDevice   Category = "device"
	CatOutput   Category = "output"
)

var (
	level  = new(slog.LevelVar)
	logger atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(slog.LevelInfo)
	SetOutput(os.Stderr)
}

// SetOutput sends all records to w as logfmt-style text.
func SetOutput(w io.Writer) {
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// SetLevel changes the minimum level that is written.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return l, nil
}

func Debug(cat Category, msg string, args ...any) { emit(slog.LevelDebug, cat, msg, args) }
func Info(cat Category, msg string, args ...any)  { emit(slog.LevelInfo, cat, msg, args) }
func Warn(cat Category, msg string, args ...any)  { emit(slog.LevelWarn, cat, msg, args) }
func Error(cat Category, msg string, args ...any) { emit(slog.LevelError, cat, msg, args) }

func emit(l slog.Level, cat Category, msg string, args []any) {
	lg := logger.Load()
	ctx := context.Background()
	if !lg.Enabled(ctx, l) {
		return
	}
	lg.Log(ctx, l, msg, append([]any{slog.String("cat", string(cat))}, args...)...)
}
