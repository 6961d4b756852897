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

import (
	"fmt"
	"strconv"
	"strings"
)

// isUnreserved reports whether b is an RFC 3986 unreserved character:
// ALPHA / DIGIT / "-" / "." / "_" / "~".
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	}
	return false
}

// pctDecode percent-decodes s, returning the byte offset of the first
// malformed escape (relative to s) on failure.
func pctDecode(s string, base int) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", &ParseError{Position: base + i, Reason: "truncated percent-encoding"}
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", &ParseError{Position: base + i, Reason: "invalid percent-encoding"}
		}
		b.WriteByte(byte(v))
		i += 2
	}
	return b.String(), nil
}

// pctEncode percent-encodes every byte in s that is not in keep (a
// predicate over already-safe bytes) using uppercase hex, per RFC 3986 §2.1.
func pctEncode(s string, safe func(byte) bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if safe(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isPathSafe(b byte) bool {
	return isUnreserved(b) || strings.IndexByte("!$&'()*+,;=:@", b) >= 0
}

func isQuerySafe(b byte) bool {
	return isUnreserved(b) || strings.IndexByte("!$'()*+,;:@/?", b) >= 0
}

func isFragmentSafe(b byte) bool {
	return isQuerySafe(b)
}

func isUserInfoSafe(b byte) bool {
	return isUnreserved(b) || strings.IndexByte("!$&'()*+,;=:", b) >= 0
}

func isHostLabelSafe(b byte) bool {
	return isUnreserved(b) || strings.IndexByte("!$&'()*+,;=", b) >= 0
}
