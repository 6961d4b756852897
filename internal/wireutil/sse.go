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

// Package wireutil holds small framing helpers used by the httpbind
// transport binding: server-sent-event and newline-delimited-JSON
// decoding.
package wireutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
)

const sseDataPrefix = "data: "

// ParseSSEStream decodes a text/event-stream body into a sequence of
// "data:" payloads, ignoring ids, comments, and other event fields.
func ParseSSEStream(body io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		prefixBytes := []byte(sseDataPrefix)

		for scanner.Scan() {
			line := scanner.Bytes()
			if bytes.HasPrefix(line, prefixBytes) {
				data := make([]byte, len(line)-len(prefixBytes))
				copy(data, line[len(prefixBytes):])
				if !yield(data, nil) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("sse stream: %w", err))
		}
	}
}

// ParseNDJSONStream decodes a newline-delimited-JSON body into a sequence
// of raw JSON values, one per line.
func ParseNDJSONStream(body io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			data := make([]byte, len(line))
			copy(data, line)
			if !yield(data, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("ndjson stream: %w", err))
		}
	}
}
