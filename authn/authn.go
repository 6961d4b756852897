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

// Package authn resolves auth credentials for outbound transport calls,
// keyed by session and authentication scheme rather than a fixed protocol.
package authn

import (
	"context"
	"errors"
	"sync"

	"github.com/agenturi/core/descriptor"
)

// ErrCredentialNotFound is returned when no credential is on file for a
// (session, scheme) pair.
var ErrCredentialNotFound = errors.New("authn: credential not found")

// SessionID scopes credentials the same way it scopes capability sessions.
type SessionID string

// Credential is an opaque scheme-specific secret (a bearer token, an API
// key, ...).
type Credential string

// String satisfies fmt.Stringer so a Credential placed in
// transport.Request.AuthContext is recognized by a binding's auth header
// logic without that binding importing this package.
func (c Credential) String() string { return string(c) }

// CredentialProvider resolves credentials for outbound calls.
type CredentialProvider interface {
	Get(ctx context.Context, sid SessionID, scheme descriptor.AuthenticationScheme) (Credential, error)
}

// InMemoryCredentialStore is a CredentialProvider backed by a plain map,
// suitable for tests and single-process deployments.
type InMemoryCredentialStore struct {
	mu          sync.RWMutex
	credentials map[SessionID]map[descriptor.AuthenticationScheme]Credential
}

// NewInMemoryCredentialStore returns an empty store.
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		credentials: make(map[SessionID]map[descriptor.AuthenticationScheme]Credential),
	}
}

func (s *InMemoryCredentialStore) Get(ctx context.Context, sid SessionID, scheme descriptor.AuthenticationScheme) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forSession, ok := s.credentials[sid]
	if !ok {
		return "", ErrCredentialNotFound
	}
	cred, ok := forSession[scheme]
	if !ok {
		return "", ErrCredentialNotFound
	}
	return cred, nil
}

// Set installs a credential for (sid, scheme), replacing any previous value.
func (s *InMemoryCredentialStore) Set(sid SessionID, scheme descriptor.AuthenticationScheme, cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[sid]; !ok {
		s.credentials[sid] = make(map[descriptor.AuthenticationScheme]Credential)
	}
	s.credentials[sid][scheme] = cred
}
