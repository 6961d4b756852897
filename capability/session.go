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

package capability

import (
	"container/list"
	"sync"
)

// SessionStore is the pluggable backing for memory-enabled capabilities. A
// Handle serializes concurrent dispatches for the same session id: the
// caller MUST call Release exactly once after using the handle.
type SessionStore interface {
	Acquire(id string) *SessionHandle
}

// sessionEntry pairs the last handler-returned context with a lock that
// serializes concurrent dispatches for one session id, per the
// per-session-lock requirement.
type sessionEntry struct {
	mu      sync.Mutex
	context any
}

// SessionHandle is a locked view onto one session's stored context.
type SessionHandle struct {
	entry *sessionEntry
}

// Context returns the value the previous dispatch for this session stored,
// or nil for a session seen for the first time.
func (h *SessionHandle) Context() any { return h.entry.context }

// SetContext replaces the stored context, taking effect once Release runs.
func (h *SessionHandle) SetContext(v any) { h.entry.context = v }

// Release unlocks the session, allowing the next dispatch for this id to
// proceed.
func (h *SessionHandle) Release() { h.entry.mu.Unlock() }

// sessionNode is the value held in the LRU's linked list.
type sessionNode struct {
	id    string
	entry *sessionEntry
}

// InMemorySessionStore is the default SessionStore: a bounded LRU of
// sessionEntry values, evicting the least-recently-acquired session once
// maxSize is exceeded. The store-level mutex only guards the map/list
// bookkeeping; the returned handle's own lock is what serializes a given
// session's dispatches.
type InMemorySessionStore struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	order   *list.List
}

// NewInMemorySessionStore returns an empty store bounded to maxSize
// sessions. maxSize <= 0 means unbounded.
func NewInMemorySessionStore(maxSize int) *InMemorySessionStore {
	return &InMemorySessionStore{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (s *InMemorySessionStore) Acquire(id string) *SessionHandle {
	s.mu.Lock()
	el, ok := s.entries[id]
	var entry *sessionEntry
	if ok {
		entry = el.Value.(*sessionNode).entry
		s.order.MoveToFront(el)
	} else {
		entry = &sessionEntry{}
		el = s.order.PushFront(&sessionNode{id: id, entry: entry})
		s.entries[id] = el
		s.evictLocked()
	}
	s.mu.Unlock()

	entry.mu.Lock()
	return &SessionHandle{entry: entry}
}

// evictLocked walks from least- to more-recently-used, dropping idle
// entries until the store is back within maxSize. An entry currently held
// by an in-flight Acquire (TryLock fails) is left in place rather than
// evicted out from under that dispatch: evicting it here would let a
// subsequent Acquire for the same id allocate a fresh, unlocked
// sessionEntry and run concurrently with the still-running dispatch,
// breaking per-session serialization. This can leave the store transiently
// over maxSize when every candidate is busy; it catches up as sessions
// release.
func (s *InMemorySessionStore) evictLocked() {
	if s.maxSize <= 0 {
		return
	}
	for el := s.order.Back(); el != nil && s.order.Len() > s.maxSize; {
		if el == s.order.Front() {
			// The most-recently-used entry (the one this Acquire just
			// created or touched) is never evicted, even if busy: doing
			// so here would drop the entry this call is about to lock
			// before it ever gets used.
			break
		}
		prev := el.Prev()
		node := el.Value.(*sessionNode)
		if node.entry.mu.TryLock() {
			node.entry.mu.Unlock()
			s.order.Remove(el)
			delete(s.entries, node.id)
		}
		el = prev
	}
}
