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
	"strconv"
	"strings"
)

// Serialize renders u back to its wire form. Serialize(Parse(s)) == s for
// any s already in canonical form (P1); Serialize does not itself normalize.
func (u AgentURI) String() string {
	return Serialize(u)
}

// Serialize renders u to its wire form.
func Serialize(u AgentURI) string {
	var b strings.Builder
	b.WriteString("agent")
	if u.Transport != "" {
		b.WriteByte('+')
		b.WriteString(u.Transport)
	}
	b.WriteString("://")

	if u.UserInfo != "" {
		b.WriteString(pctEncode(u.UserInfo, isUserInfoSafe))
		b.WriteByte('@')
	}

	if u.isDID {
		b.WriteString(u.Host)
	} else if strings.HasPrefix(u.Host, "[") {
		b.WriteString(u.Host)
		if u.Port != 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(u.Port))
		}
	} else {
		b.WriteString(pctEncode(u.Host, isHostLabelSafe))
		if u.Port != 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(u.Port))
		}
	}

	if u.PathSegments != nil {
		for _, seg := range u.PathSegments {
			b.WriteByte('/')
			b.WriteString(pctEncode(seg, isPathSafe))
		}
		if len(u.PathSegments) == 0 {
			b.WriteByte('/')
		}
	}

	if u.Query != nil {
		b.WriteByte('?')
		for i, p := range u.Query {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(pctEncode(p.Key, isQuerySafe))
			if p.Value != nil {
				b.WriteByte('=')
				b.WriteString(pctEncode(*p.Value, isQuerySafe))
			}
		}
	}

	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(pctEncode(*u.Fragment, isFragmentSafe))
	}

	return b.String()
}
