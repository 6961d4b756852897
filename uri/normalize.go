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

package uri

import "strings"

// defaultPort maps a transport tag to the port Normalize strips when given
// explicitly, mirroring the scheme table the resolver's endpoint synthesis
// rule uses (resolver.endpointScheme). Tags with no conventional default
// port (local, unix, matrix, grpc) are absent and never trigger a strip.
var defaultPort = map[string]int{
	"https": 443,
	"wss":   443,
	"http":  80,
	"ws":    80,
}

// Normalize returns the canonical form of u: scheme, transport tag and host
// are lowercased, "." and ".." path segments are resolved, a bare "/" path
// collapses to no-path when neither a query nor a fragment follows it, a
// port matching the transport's default is dropped, and an empty query or
// fragment (present via a trailing "?" or "#" but with no content) is
// dropped entirely.
// Normalize is idempotent (P2): Normalize(Normalize(u)) == Normalize(u).
func Normalize(u AgentURI) AgentURI {
	out := u
	out.Transport = strings.ToLower(u.Transport)
	if !u.isDID {
		out.Host = strings.ToLower(u.Host)
	}

	if u.PathSegments != nil {
		out.PathSegments = removeDotSegments(u.PathSegments)
	}

	if len(out.PathSegments) == 0 && out.PathSegments != nil && out.Query == nil && out.Fragment == nil {
		out.PathSegments = nil
	}

	if port, ok := defaultPort[out.Transport]; ok && out.Port == port {
		out.Port = 0
	}

	if out.Query != nil && len(out.Query) == 0 {
		out.Query = nil
	}

	if out.Fragment != nil && *out.Fragment == "" {
		out.Fragment = nil
	}

	return out
}

// removeDotSegments resolves "." and ".." components per RFC 3986 §5.2.4,
// applied to an already-split segment list rather than a raw path string,
// and drops empty interior segments (a doubled "//" or a trailing "/")
// since the grammar requires segments to be non-empty after normalization.
// This does not affect the distinct empty-slice encoding of a bare "/"
// path (PathSegments == []string{}, no elements to drop).
func removeDotSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".":
			// drop
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case "":
			// drop
		default:
			out = append(out, seg)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// Equal reports whether a and b denote the same URI once normalized.
func Equal(a, b AgentURI) bool {
	return Serialize(Normalize(a)) == Serialize(Normalize(b))
}
