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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/agenturi/core/problem"
)

func newTestContext(buf *bytes.Buffer) context.Context {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{})
	return WithLogger(context.Background(), FromSlog(slog.New(handler)))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal(%q): %v", buf.String(), err)
	}
	return out
}

func TestInfoWritesThroughAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := newTestContext(&buf)

	Info(ctx, "resolved agent uri", "host", "example.com")

	line := decodeLine(t, &buf)
	if line["msg"] != "resolved agent uri" {
		t.Errorf("msg = %v, want %q", line["msg"], "resolved agent uri")
	}
	if line["host"] != "example.com" {
		t.Errorf("host = %v, want example.com", line["host"])
	}
}

func TestErrorIncludesErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	ctx := newTestContext(&buf)

	Error(ctx, "fetch failed", errors.New("connection reset"), "url", "https://example.com/agent.json")

	line := decodeLine(t, &buf)
	if line["error"] != "connection reset" {
		t.Errorf("error = %v, want %q", line["error"], "connection reset")
	}
	if line["url"] != "https://example.com/agent.json" {
		t.Errorf("url = %v, want https://example.com/agent.json", line["url"])
	}
}

func TestVerboseRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	ctx := WithLogger(context.Background(), FromSlog(slog.New(handler)))

	Verbose(ctx, LevelInfo, "cache hit, suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected nothing logged below the handler's level, got %q", buf.String())
	}
}

func TestWithAttachesFieldsToEveryCall(t *testing.T) {
	var buf bytes.Buffer
	base, ok := LoggerFrom(newTestContext(&buf))
	if !ok {
		t.Fatal("LoggerFrom: expected a logger")
	}
	scoped := base.With("component", "resolver")

	scoped.Info(context.Background(), "well-known fetch")

	line := decodeLine(t, &buf)
	if line["component"] != "resolver" {
		t.Errorf("component = %v, want resolver", line["component"])
	}
}

func TestNoLoggerAttachedIsANoop(t *testing.T) {
	// None of these should panic when no Logger has been attached.
	ctx := context.Background()
	Info(ctx, "ignored")
	Error(ctx, "ignored", errors.New("boom"))
	Verbose(ctx, LevelInfo, "ignored")
	Problem(ctx, "ignored", problem.NewError(problem.CodeInternalError, "boom"))
	if V(ctx, LevelInfo) {
		t.Error("V() = true with no logger attached, want false")
	}
}

func TestProblemLogsClientFaultBelowError(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	ctx := WithLogger(context.Background(), FromSlog(slog.New(handler)))

	Problem(ctx, "capability rejected", problem.NewError(problem.CodeValidationError, "missing field \"name\""))

	line := decodeLine(t, &buf)
	if line["status"] != float64(400) {
		t.Errorf("status = %v, want 400", line["status"])
	}
	if line["title"] != "Validation Error" {
		t.Errorf("title = %v, want Validation Error", line["title"])
	}
}

func TestProblemLogsSystemFaultAsError(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	ctx := WithLogger(context.Background(), FromSlog(slog.New(handler)))

	// A validation error (warn level) must be filtered out by an
	// error-only handler, but a network error (error level) must not.
	Problem(ctx, "suppressed", problem.NewError(problem.CodeValidationError, "bad input"))
	if buf.Len() != 0 {
		t.Fatalf("client fault reached an error-only handler: %s", buf.String())
	}

	Problem(ctx, "descriptor fetch failed", problem.NewError(problem.CodeNetworkError, "connection reset"))
	line := decodeLine(t, &buf)
	if line["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", line["level"])
	}
}
