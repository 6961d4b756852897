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

package descriptor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// LoadFromSource reads and parses an agent.json document from a local file
// path or an http(s) URL. This is a plain, one-shot fetch: it does not
// consult a cache or follow the well-known-path resolution order (that is
// the resolver's job, not the descriptor model's).
func LoadFromSource(ctx context.Context, source string) (AgentDescriptor, error) {
	var body []byte
	var err error

	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		body, err = fetchHTTP(ctx, source)
	default:
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return AgentDescriptor{}, fmt.Errorf("descriptor: loading %q: %w", source, err)
	}

	return Parse(body)
}

func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
