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

// New builds a minimal AgentURI with the given host and no transport tag,
// path, query or fragment. Use the With* methods to fill in the rest.
func New(host string) AgentURI {
	return AgentURI{Host: host}
}

// WithTransport returns a copy of u with Transport set to tag.
func (u AgentURI) WithTransport(tag string) AgentURI {
	u.Transport = tag
	return u
}

// WithUserInfo returns a copy of u with UserInfo set.
func (u AgentURI) WithUserInfo(userinfo string) AgentURI {
	u.UserInfo = userinfo
	return u
}

// WithHost returns a copy of u with Host set and IsDIDHost cleared. Use
// WithDIDHost for "did:" opaque identifiers.
func (u AgentURI) WithHost(host string) AgentURI {
	u.Host = host
	u.isDID = false
	return u
}

// WithDIDHost returns a copy of u with Host set to a "did:"-prefixed opaque
// identifier and port parsing disabled, mirroring the Parse special case.
func (u AgentURI) WithDIDHost(did string) AgentURI {
	u.Host = did
	u.Port = 0
	u.isDID = true
	return u
}

// WithPort returns a copy of u with Port set. It is a no-op on DID hosts.
func (u AgentURI) WithPort(port int) AgentURI {
	if u.isDID {
		return u
	}
	u.Port = port
	return u
}

// WithPath returns a copy of u whose path is the given segments. Pass a
// non-nil empty slice for the degenerate "/" path, and nil to remove the
// path entirely.
func (u AgentURI) WithPath(segments []string) AgentURI {
	if segments == nil {
		u.PathSegments = nil
		return u
	}
	cp := make([]string, len(segments))
	copy(cp, segments)
	u.PathSegments = cp
	return u
}

// AppendPathSegment returns a copy of u with segment appended to the path,
// initializing the path if it was previously absent.
func (u AgentURI) AppendPathSegment(segment string) AgentURI {
	base := u.PathSegments
	cp := make([]string, len(base), len(base)+1)
	copy(cp, base)
	u.PathSegments = append(cp, segment)
	return u
}

// WithQuery returns a copy of u whose query multimap is params. Pass a
// non-nil empty slice for a present-but-empty query, and nil to remove the
// query component entirely.
func (u AgentURI) WithQuery(params []QueryParam) AgentURI {
	if params == nil {
		u.Query = nil
		return u
	}
	cp := make([]QueryParam, len(params))
	copy(cp, params)
	u.Query = cp
	return u
}

// WithQueryParam returns a copy of u with an additional key/value pair
// appended to the query multimap (duplicates allowed, insertion order
// preserved).
func (u AgentURI) WithQueryParam(key, value string) AgentURI {
	v := value
	base := u.Query
	cp := make([]QueryParam, len(base), len(base)+1)
	copy(cp, base)
	u.Query = append(cp, QueryParam{Key: key, Value: &v})
	return u
}

// WithQueryFlag returns a copy of u with a key appended to the query
// multimap with no "=" (the present-but-no-value sentinel).
func (u AgentURI) WithQueryFlag(key string) AgentURI {
	base := u.Query
	cp := make([]QueryParam, len(base), len(base)+1)
	copy(cp, base)
	u.Query = append(cp, QueryParam{Key: key, Value: nil})
	return u
}

// WithoutQuery returns a copy of u with the query component removed
// entirely.
func (u AgentURI) WithoutQuery() AgentURI {
	u.Query = nil
	return u
}

// WithFragment returns a copy of u with Fragment set to frag.
func (u AgentURI) WithFragment(frag string) AgentURI {
	f := frag
	u.Fragment = &f
	return u
}

// WithoutFragment returns a copy of u with the fragment component removed
// entirely.
func (u AgentURI) WithoutFragment() AgentURI {
	u.Fragment = nil
	return u
}
