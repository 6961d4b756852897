// Copyright 2026 The Agent URI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log carries a context-scoped Logger through the resolver,
// transport bindings, and capability dispatcher so any of them can emit a
// structured log line without depending on a concrete logging backend. It
// also folds problem.Detail's HTTP-mirrored status into the Level a
// ProblemError logs at, so a caller/client fault (4xx) and a system fault
// (5xx) surface at different severities without every call site working
// out that mapping itself.
package log

import (
	"context"

	"github.com/agenturi/core/problem"
)

// A Level is the importance or severity of a log event.
// The higher the level, the more important or severe the event.
type Level int32

// Fixed levels, chosen to line up with log/slog's Debug/Info/Warn/Error so
// FromSlog needs no translation table.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// ProblemError is the informal "convert to a Detail" contract every typed
// error in this module satisfies (uri.ParseError, resolver.NetworkError,
// capability.NotFoundError, and so on). Problem uses it to log at a
// severity derived from the failure's HTTP-mirrored status rather than a
// severity the caller has to pick by hand.
type ProblemError interface {
	error
	ToProblemDetail() problem.Detail
}

// LevelForStatus derives a Level from an RFC 7807 Detail.Status: 5xx logs
// as an error, 4xx as a warning, anything else (a caller that left Status
// unset) as info.
func LevelForStatus(status int) Level {
	switch {
	case status >= 500:
		return LevelError
	case status >= 400:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// Logger provides a minimalistic logging interface.
type Logger interface {
	V(ctx context.Context, level Level) bool
	Verbose(ctx context.Context, level Level, msg string, keyValArgs ...any)
	Info(ctx context.Context, msg string, keyValArgs ...any)
	Error(ctx context.Context, msg string, err error, keyValArgs ...any)
	Problem(ctx context.Context, msg string, err ProblemError, keyValArgs ...any)
	With(keyValArgs ...any) Logger
}

type loggerKey struct{}

// WithLogger creates a new Context with the provided Logger attached.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the Logger associated with the context, or false if no logger is available.
func LoggerFrom(ctx context.Context) (Logger, bool) {
	logger, ok := ctx.Value(loggerKey{}).(Logger)
	return logger, ok
}

// V invokes V on the Logger associated with the provided Context or returns false if there's no Logger attached.
func V(ctx context.Context, level Level) bool {
	if logger, ok := LoggerFrom(ctx); ok {
		return logger.V(ctx, level)
	}
	return false
}

// Verbose invokes Verbose on the Logger associated with the provided Context or does nothing if there's no Logger attached.
func Verbose(ctx context.Context, level Level, msg string, keyValArgs ...any) {
	if logger, ok := LoggerFrom(ctx); ok {
		logger.Verbose(ctx, level, msg, keyValArgs...)
	}
}

// Info invokes Info on the Logger associated with the provided Context or does nothing if there's no Logger attached.
func Info(ctx context.Context, msg string, keyValArgs ...any) {
	if logger, ok := LoggerFrom(ctx); ok {
		logger.Info(ctx, msg, keyValArgs...)
	}
}

// Error invokes Error on the Logger associated with the provided Context or does nothing if there's no Logger attached.
func Error(ctx context.Context, msg string, err error, keyValArgs ...any) {
	if logger, ok := LoggerFrom(ctx); ok {
		logger.Error(ctx, msg, err, keyValArgs...)
	}
}

// Problem invokes Problem on the Logger associated with the provided
// Context or does nothing if there's no Logger attached, logging err at
// the Level LevelForStatus derives from its Detail.Status.
func Problem(ctx context.Context, msg string, err ProblemError, keyValArgs ...any) {
	if logger, ok := LoggerFrom(ctx); ok {
		logger.Problem(ctx, msg, err, keyValArgs...)
	}
}
