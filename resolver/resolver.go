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

// Package resolver turns an agent:// URI into a concrete endpoint and,
// when available, its descriptor, trying well-known paths in a
// deterministic order with HTTP-compliant caching.
package resolver

import (
	"strconv"
	"strings"

	"github.com/agenturi/core/descriptor"
	"github.com/agenturi/core/uri"
)

// Method identifies which resolution strategy produced a Result.
type Method string

const (
	MethodExplicit             Method = "explicit"
	MethodSubdomainWellKnown   Method = "subdomain-well-known"
	MethodMultiAgentRegistry   Method = "multi-agent-registry"
	MethodSingleAgentWellKnown Method = "single-agent-well-known"
	MethodPathBased            Method = "path-based"
	MethodDirectFallback       Method = "direct-fallback"
)

// CacheMetadata reports whether a Result's descriptor came from the cache
// and the freshness bookkeeping the resolver used to decide that.
type CacheMetadata struct {
	ETag         string
	LastModified string
	ExpiresAt    int64 // unix seconds; zero means unknown
	FromCache    bool
}

// Result is the outcome of a successful Resolve call.
type Result struct {
	Descriptor   *descriptor.AgentDescriptor
	Endpoint     string
	TransportTag string
	Method       Method
	CacheMeta    CacheMetadata
}

// endpointScheme maps a transport tag to its endpoint URL scheme, per the
// fixed table in the endpoint synthesis rule.
var endpointScheme = map[string]string{
	"https":  "https",
	"wss":    "wss",
	"ws":     "ws",
	"http":   "http",
	"local":  "local",
	"unix":   "unix",
	"matrix": "matrix",
	"grpc":   "grpc",
}

// synthesizeEndpoint builds "<scheme>://<authority><path>" for u using the
// fixed transport-tag table, or an override from descriptor endpoints when
// tag is unknown.
func synthesizeEndpoint(u uri.AgentURI, overrides map[string]string) (string, error) {
	tag := u.Transport
	scheme, known := endpointScheme[tag]
	if !known {
		if override, ok := overrides[tag]; ok {
			return override, nil
		}
		return "", NewUnknownTransportError(tag)
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(authorityOf(u))
	for _, seg := range u.PathSegments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String(), nil
}

func authorityOf(u uri.AgentURI) string {
	var b strings.Builder
	if u.UserInfo != "" {
		b.WriteString(u.UserInfo)
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	if u.Port != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.Port))
	}
	return b.String()
}

// firstPathSegment returns u's first path segment and whether one exists.
func firstPathSegment(u uri.AgentURI) (string, bool) {
	if len(u.PathSegments) == 0 {
		return "", false
	}
	return u.PathSegments[0], true
}

// looksLikeSubdomain applies the heuristic from the resolution order:
// at least three DNS labels.
func looksLikeSubdomain(host string) bool {
	if strings.HasPrefix(host, "[") || strings.HasPrefix(host, "did:") {
		return false
	}
	return strings.Count(host, ".") >= 2
}
