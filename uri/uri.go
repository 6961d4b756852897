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

// Package uri implements the tokenizer, parser, normalizer and serializer
// for agent:// and agent+<transport>:// URIs.
package uri

// QueryParam is one key/value pair of an AgentURI's query multimap. Value is
// nil when the key appeared without "=" (the "present but empty" sentinel
// distinguishing "?flag" from "?flag="), and points to an empty string when
// the key appeared as "key=".
type QueryParam struct {
	Key   string
	Value *string
}

// HasValue reports whether the pair had a "=" at all.
func (p QueryParam) HasValue() bool { return p.Value != nil }

// ValueOrEmpty returns the decoded value, or "" if the key had no "=".
func (p QueryParam) ValueOrEmpty() string {
	if p.Value == nil {
		return ""
	}
	return *p.Value
}

// AgentURI is an immutable parsed agent:// URI. Values are produced by
// Parse or the With* builders and are never mutated in place; every builder
// returns a new value.
type AgentURI struct {
	// Transport is the optional short tag after "agent+", lowercase once
	// normalized. Empty string means no transport tag was present.
	Transport string

	// UserInfo is the optional decoded userinfo component.
	UserInfo string

	// Host is the mandatory, decoded host component: a DNS-style name, a
	// bracketed IP literal (e.g. "[::1]"), or an opaque "did:..." reference.
	Host string

	// Port is 0 when absent, otherwise in 1..65535.
	Port int

	// PathSegments is nil when the URI has no path component at all, a
	// non-nil empty slice when the path is exactly "/", and a populated
	// slice of percent-decoded segments otherwise.
	PathSegments []string

	// Query is nil when the URI has no "?" at all, a non-nil empty slice
	// when the query is present but empty ("?" with nothing after it up to
	// "#" or end of string), and populated with decoded pairs (insertion
	// order preserved, repeats allowed) otherwise.
	Query []QueryParam

	// Fragment is nil when the URI has no "#" at all, and points to the
	// decoded fragment content (possibly "") when it does.
	Fragment *string

	// isDID marks that Host was parsed under the "did:" opaque-identifier
	// rule, which disables port parsing on this value.
	isDID bool
}

// Scheme returns the always-literal "agent" scheme.
func (u AgentURI) Scheme() string { return "agent" }

// IsDIDHost reports whether Host was parsed as an opaque "did:" identifier
// rather than a DNS name or IP literal.
func (u AgentURI) IsDIDHost() bool { return u.isDID }

// HasPath reports whether the URI has a path component at all (including
// the degenerate "/" path).
func (u AgentURI) HasPath() bool { return u.PathSegments != nil }

// HasQuery reports whether the URI has a "?" component at all.
func (u AgentURI) HasQuery() bool { return u.Query != nil }

// HasFragment reports whether the URI has a "#" component at all.
func (u AgentURI) HasFragment() bool { return u.Fragment != nil }

// QueryValues returns every value associated with key, in insertion order.
// A present-but-empty entry contributes "" to the result.
func (u AgentURI) QueryValues(key string) []string {
	var out []string
	for _, p := range u.Query {
		if p.Key == key {
			out = append(out, p.ValueOrEmpty())
		}
	}
	return out
}

// QueryGet returns the first value for key and whether it was present at
// all.
func (u AgentURI) QueryGet(key string) (string, bool) {
	for _, p := range u.Query {
		if p.Key == key {
			return p.ValueOrEmpty(), true
		}
	}
	return "", false
}
