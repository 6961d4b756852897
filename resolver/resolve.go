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

package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agenturi/core/config"
	"github.com/agenturi/core/descriptor"
	"github.com/agenturi/core/log"
	"github.com/agenturi/core/uri"
)

// Resolver turns an AgentURI into an endpoint and, when available, a
// descriptor. A Resolver owns its cache and must not be copied after use.
type Resolver struct {
	cfg     config.Config
	cache   *cache
	fetcher *fetcher

	// wellKnownScheme is "https" in production; tests override it to
	// "http" to point well-known fetches at an httptest.Server.
	wellKnownScheme string
}

// New builds a Resolver from cfg, sizing its cache from
// cfg.CacheMaxEntries.
func New(cfg config.Config) *Resolver {
	return &Resolver{
		cfg:             cfg,
		cache:           newCache(cfg.CacheMaxEntries),
		fetcher:         newFetcher(&http.Client{Timeout: cfg.Timeout, CheckRedirect: noRedirect}),
		wellKnownScheme: "https",
	}
}

// noRedirect stops the well-known fetch client from following redirects;
// the 3xx response itself is returned to the caller.
func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// ResolveOptions controls a single Resolve call.
type ResolveOptions struct {
	// FetchDescriptor forces a descriptor lookup even when the URI has an
	// explicit transport tag (which otherwise short-circuits at step 1).
	FetchDescriptor bool

	// AgentHost marks that the caller already knows Host names an agent,
	// triggering the subdomain-well-known strategy (step 2) even when
	// Host doesn't have the three-or-more-label shape that strategy
	// otherwise infers from.
	AgentHost bool
}

// ClearCache drops every cached entry.
func (r *Resolver) ClearCache() { r.cache.clear() }

// ClearCacheFor drops the cached entry for a single well-known URL.
func (r *Resolver) ClearCacheFor(url string) { r.cache.delete(url) }

// Resolve executes the resolution order, halting on first success.
func (r *Resolver) Resolve(ctx context.Context, u uri.AgentURI, opts ResolveOptions) (Result, error) {
	if u.Transport != "" {
		endpoint, err := synthesizeEndpoint(u, nil)
		if err != nil {
			return Result{}, err
		}
		if !opts.FetchDescriptor {
			return Result{Endpoint: endpoint, TransportTag: u.Transport, Method: MethodExplicit}, nil
		}

		d, meta, method, found, err := r.resolveDescriptor(ctx, u, opts.AgentHost)
		if err != nil {
			return Result{}, err
		}
		if !found {
			return Result{Endpoint: endpoint, TransportTag: u.Transport, Method: MethodDirectFallback}, nil
		}
		return Result{
			Descriptor:   d,
			Endpoint:     endpoint,
			TransportTag: u.Transport,
			Method:       method,
			CacheMeta:    meta,
		}, nil
	}

	d, meta, method, found, err := r.resolveDescriptor(ctx, u, opts.AgentHost)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, NewNotFoundError(u.Host)
	}

	endpoint := endpointFromDescriptor(u, d)
	return Result{
		Descriptor:   d,
		Endpoint:     endpoint,
		TransportTag: u.Transport,
		Method:       method,
		CacheMeta:    meta,
	}, nil
}

// resolveDescriptor runs steps 2-5 of the resolution order. agentHost
// forces step 2 (subdomain-well-known) even when u.Host doesn't have the
// three-or-more-label shape looksLikeSubdomain infers from.
func (r *Resolver) resolveDescriptor(ctx context.Context, u uri.AgentURI, agentHost bool) (*descriptor.AgentDescriptor, CacheMetadata, Method, bool, error) {
	origin := u.Host
	if u.Port != 0 {
		origin += ":" + strconv.Itoa(u.Port)
	}

	if agentHost || looksLikeSubdomain(u.Host) {
		docURL := r.wellKnownScheme + "://" + origin + "/.well-known/agent.json"
		d, meta, err := r.fetchDescriptor(ctx, docURL)
		if err == nil {
			return d, meta, MethodSubdomainWellKnown, true, nil
		}
		if !isNotFoundLike(err) {
			return nil, CacheMetadata{}, "", false, err
		}
	}

	registryURL := r.wellKnownScheme + "://" + origin + "/.well-known/agents.json"
	if d, meta, ok, err := r.resolveViaRegistry(ctx, u, registryURL); err != nil {
		return nil, CacheMetadata{}, "", false, err
	} else if ok {
		return d, meta, MethodMultiAgentRegistry, true, nil
	}

	singleURL := r.wellKnownScheme + "://" + origin + "/.well-known/agent.json"
	if d, meta, err := r.fetchDescriptor(ctx, singleURL); err == nil {
		return d, meta, MethodSingleAgentWellKnown, true, nil
	} else if !isNotFoundLike(err) {
		return nil, CacheMetadata{}, "", false, err
	}

	if seg, ok := firstPathSegment(u); ok {
		pathURL := r.wellKnownScheme + "://" + origin + "/" + seg + "/agent.json"
		if d, meta, err := r.fetchDescriptor(ctx, pathURL); err == nil {
			return d, meta, MethodPathBased, true, nil
		} else if !isNotFoundLike(err) {
			return nil, CacheMetadata{}, "", false, err
		}
	}

	return nil, CacheMetadata{}, "", false, nil
}

// resolveViaRegistry fetches an agents.json mapping and, if it contains an
// entry for u's first path segment (or the empty key), follows it.
func (r *Resolver) resolveViaRegistry(ctx context.Context, u uri.AgentURI, registryURL string) (*descriptor.AgentDescriptor, CacheMetadata, bool, error) {
	body, _, err := r.fetchCached(ctx, registryURL)
	if err != nil {
		if isNotFoundLike(err) {
			return nil, CacheMetadata{}, false, nil
		}
		return nil, CacheMetadata{}, false, err
	}

	var registry struct {
		Agents map[string]string `json:"agents"`
	}
	if err := json.Unmarshal(body, &registry); err != nil {
		return nil, CacheMetadata{}, false, NewDescriptorValidationError(registryURL, err)
	}

	key, hasSeg := firstPathSegment(u)
	if !hasSeg {
		key = ""
	}
	descURL, ok := registry.Agents[key]
	if !ok {
		return nil, CacheMetadata{}, false, nil
	}

	d, descMeta, err := r.fetchDescriptor(ctx, descURL)
	if err != nil {
		return nil, CacheMetadata{}, false, err
	}
	return d, descMeta, true, nil
}

// fetchDescriptor fetches and parses an agent.json document at url,
// consulting and updating the cache.
func (r *Resolver) fetchDescriptor(ctx context.Context, url string) (*descriptor.AgentDescriptor, CacheMetadata, error) {
	body, meta, err := r.fetchCached(ctx, url)
	if err != nil {
		return nil, CacheMetadata{}, err
	}

	d, err := descriptor.Parse(body)
	if err != nil {
		r.cache.delete(url)
		return nil, CacheMetadata{}, NewDescriptorValidationError(url, err)
	}
	return &d, meta, nil
}

// fetchCached implements the cache-freshness state machine: serve fresh
// entries without a network call, revalidate stale ones conditionally,
// and evict poisoned entries so they're re-fetched next time.
func (r *Resolver) fetchCached(ctx context.Context, url string) ([]byte, CacheMetadata, error) {
	now := time.Now()

	if entry, ok := r.cache.get(url); ok && entry.fresh(now) {
		log.Verbose(ctx, log.LevelDebug, "descriptor cache hit", "url", url)
		return entry.body, CacheMetadata{
			ETag: entry.etag, LastModified: entry.lastModified,
			ExpiresAt: entry.expiresAt.Unix(), FromCache: true,
		}, nil
	}

	var prevETag, prevLastModified string
	var prevBody []byte
	if entry, ok := r.cache.get(url); ok {
		prevETag, prevLastModified, prevBody = entry.etag, entry.lastModified, entry.body
		log.Verbose(ctx, log.LevelDebug, "descriptor cache stale, revalidating", "url", url)
	} else {
		log.Verbose(ctx, log.LevelDebug, "descriptor cache miss", "url", url)
	}

	result, err := r.fetcher.get(ctx, url, prevETag, prevLastModified)
	if err != nil {
		classified := classifyFetchError(url, err)
		log.Problem(ctx, "descriptor fetch failed", classified.(log.ProblemError), "url", url)
		return nil, CacheMetadata{}, classified
	}

	switch result.status {
	case http.StatusOK:
		expiresAt := computeExpiry(now, result, r.cfg.CacheTTLDefault)
		r.cache.set(url, &cacheEntry{
			body: result.body, etag: result.etag, lastModified: result.lastModified, expiresAt: expiresAt,
		})
		log.Info(ctx, "descriptor fetched", "url", url, "expiresAt", expiresAt)
		return result.body, CacheMetadata{ETag: result.etag, LastModified: result.lastModified, ExpiresAt: expiresAt.Unix()}, nil

	case http.StatusNotModified:
		expiresAt := computeExpiry(now, result, r.cfg.CacheTTLDefault)
		r.cache.set(url, &cacheEntry{body: prevBody, etag: prevETag, lastModified: prevLastModified, expiresAt: expiresAt})
		log.Verbose(ctx, log.LevelDebug, "descriptor not modified", "url", url)
		return prevBody, CacheMetadata{ETag: prevETag, LastModified: prevLastModified, ExpiresAt: expiresAt.Unix(), FromCache: true}, nil

	case http.StatusNotFound:
		r.cache.delete(url)
		log.Verbose(ctx, log.LevelDebug, "descriptor not found, cache entry evicted", "url", url)
		return nil, CacheMetadata{}, NewNotFoundError(url)

	default:
		return nil, CacheMetadata{}, NewNetworkError(url, fmt.Errorf("unexpected status %d", result.status))
	}
}

func computeExpiry(now time.Time, result *fetchResult, defaultTTL time.Duration) time.Time {
	if result.hasMaxAge {
		return now.Add(result.maxAge)
	}
	return now.Add(defaultTTL)
}

func classifyFetchError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(url, err)
	}
	return NewNetworkError(url, err)
}

func isNotFoundLike(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// endpointFromDescriptor picks the endpoint for u's transport tag (or a
// sensible default) from a resolved descriptor's endpoint map, falling
// back to the descriptor's URL field.
func endpointFromDescriptor(u uri.AgentURI, d *descriptor.AgentDescriptor) string {
	if u.Transport != "" {
		if ep, ok := d.Endpoints[u.Transport]; ok {
			return ep
		}
	}
	if d.URL != "" {
		return d.URL
	}
	if ep, err := synthesizeEndpoint(u, d.Endpoints); err == nil {
		return ep
	}
	return "https://" + u.Host
}
