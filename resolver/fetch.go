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
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// fetchResult is the outcome of one HTTP round trip against a well-known
// document URL.
type fetchResult struct {
	status       int
	body         []byte
	etag         string
	lastModified string
	maxAge       time.Duration // zero means the response named no max-age
	hasMaxAge    bool
}

// fetcher performs the well-known-document HTTP GETs, de-duplicating
// concurrent identical requests (including conditional revalidation
// probes) via singleflight so a burst of callers triggers one network
// call.
type fetcher struct {
	client *http.Client
	group  singleflight.Group
}

func newFetcher(client *http.Client) *fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &fetcher{client: client}
}

// get issues a conditional GET against url. prevETag/prevLastModified are
// empty for a first fetch, or the cached entry's values for a
// revalidation probe.
func (f *fetcher) get(ctx context.Context, url, prevETag, prevLastModified string) (*fetchResult, error) {
	key := url + "\x00" + prevETag + "\x00" + prevLastModified
	v, err, _ := f.group.Do(key, func() (any, error) {
		return f.doGet(ctx, url, prevETag, prevLastModified)
	})
	if err != nil {
		return nil, err
	}
	return v.(*fetchResult), nil
}

func (f *fetcher) doGet(ctx context.Context, url, prevETag, prevLastModified string) (*fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if prevETag != "" {
		req.Header.Set("If-None-Match", prevETag)
	}
	if prevLastModified != "" {
		req.Header.Set("If-Modified-Since", prevLastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &fetchResult{
		status:       resp.StatusCode,
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	}

	if maxAge, ok := parseMaxAge(resp.Header.Get("Cache-Control")); ok {
		result.maxAge = maxAge
		result.hasMaxAge = true
	}

	if resp.StatusCode == http.StatusNotModified {
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	result.body = body
	return result, nil
}

func parseMaxAge(cacheControl string) (time.Duration, bool) {
	if cacheControl == "" {
		return 0, false
	}
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		const prefix = "max-age="
		if !strings.HasPrefix(directive, prefix) {
			continue
		}
		seconds, err := strconv.Atoi(directive[len(prefix):])
		if err != nil {
			continue
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}
