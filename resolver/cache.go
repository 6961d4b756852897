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
	"container/list"
	"sync"
	"time"
)

// cacheEntry is the value stored per URL: the fetched bytes plus the
// conditional-request bookkeeping needed to revalidate them.
type cacheEntry struct {
	body         []byte
	etag         string
	lastModified string
	expiresAt    time.Time
}

func (e *cacheEntry) fresh(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.Before(e.expiresAt)
}

// cache is a bounded LRU of well-known-document fetches, keyed by request
// URL. It is safe for concurrent use.
type cache struct {
	mu       sync.Mutex
	maxSize  int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type cacheNode struct {
	key   string
	entry *cacheEntry
}

func newCache(maxSize int) *cache {
	return &cache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *cache) get(url string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheNode).entry, true
}

func (c *cache) set(url string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[url]; ok {
		el.Value.(*cacheNode).entry = entry
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheNode{key: url, entry: entry})
	c.entries[url] = el

	for c.maxSize > 0 && c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheNode).key)
	}
}

func (c *cache) delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[url]; ok {
		c.order.Remove(el)
		delete(c.entries, url)
	}
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}
