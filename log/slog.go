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

package log

import (
	"context"
	"log/slog"
)

type slogLogger struct {
	logger *slog.Logger
}

// FromSlog creates a new Logger implementation backed by the provided log/slog logger.
func FromSlog(logger *slog.Logger) Logger {
	return &slogLogger{logger}
}

func (s *slogLogger) V(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}

func (s *slogLogger) Verbose(ctx context.Context, level Level, msg string, keyValArgs ...any) {
	s.logger.Log(ctx, slog.Level(level), msg, keyValArgs...)
}

func (s *slogLogger) Info(ctx context.Context, msg string, keyValArgs ...any) {
	s.logger.InfoContext(ctx, msg, keyValArgs...)
}

func (s *slogLogger) Error(ctx context.Context, msg string, err error, keyValArgs ...any) {
	s.logger.ErrorContext(ctx, msg, append([]any{"error", err.Error()}, keyValArgs...)...)
}

// Problem logs err at the Level LevelForStatus derives from its
// Detail.Status, attaching the Detail's type/title/status/instance as
// structured fields alongside keyValArgs.
func (s *slogLogger) Problem(ctx context.Context, msg string, err ProblemError, keyValArgs ...any) {
	detail := err.ToProblemDetail()
	level := LevelForStatus(detail.Status)

	args := make([]any, 0, 8+len(keyValArgs))
	args = append(args, "problem_type", detail.Type, "title", detail.Title, "status", detail.Status)
	if detail.Instance != "" {
		args = append(args, "instance", detail.Instance)
	}
	args = append(args, "error", err.Error())
	args = append(args, keyValArgs...)

	s.logger.Log(ctx, slog.Level(level), msg, args...)
}

func (s *slogLogger) With(keyValArgs ...any) Logger {
	return &slogLogger{logger: s.logger.With(keyValArgs...)}
}
