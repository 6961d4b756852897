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
	"context"
	"errors"
	"iter"

	"github.com/agenturi/core/descriptor"
	"github.com/agenturi/core/log"
	"github.com/agenturi/core/transport"
)

// AuthPolicy decides whether req is allowed to invoke a RequiresAuth
// capability. Dispatch calls it only for capabilities with RequiresAuth
// set; capabilities that don't require auth never consult it.
type AuthPolicy interface {
	Authorize(ctx context.Context, capabilityName string, req Request) error
}

// ErrMissingAuthContext is the default AuthPolicy's rejection reason when
// a RequiresAuth capability is called with no AuthContext at all.
var ErrMissingAuthContext = errors.New("capability: no auth context on request")

// AuthPolicyFunc adapts a plain function to AuthPolicy.
type AuthPolicyFunc func(ctx context.Context, capabilityName string, req Request) error

func (f AuthPolicyFunc) Authorize(ctx context.Context, capabilityName string, req Request) error {
	return f(ctx, capabilityName, req)
}

// DenyMissingAuthContext is the default AuthPolicy: it accepts any
// non-nil req.AuthContext and rejects a nil one. Callers with real
// scheme/credential checks pass their own AuthPolicy to NewDispatcher.
var DenyMissingAuthContext AuthPolicy = AuthPolicyFunc(func(_ context.Context, _ string, req Request) error {
	if req.AuthContext == nil {
		return ErrMissingAuthContext
	}
	return nil
})

// Outcome is what Dispatch returns: exactly one of Response (Streaming
// false) or Stream (Streaming true) is populated.
type Outcome struct {
	Streaming bool
	Response  Response
	Stream    iter.Seq2[transport.Chunk, error]
}

// Dispatcher runs the register/list/derive_descriptor/dispatch capability
// framework over a Registry, applying schema validation, an auth policy,
// and session serialization around each call.
type Dispatcher struct {
	registry *Registry
	auth     AuthPolicy
	sessions SessionStore
}

// NewDispatcher builds a Dispatcher over registry. A nil auth defaults to
// DenyMissingAuthContext; a nil sessions defaults to an unbounded
// InMemorySessionStore.
func NewDispatcher(registry *Registry, auth AuthPolicy, sessions SessionStore) *Dispatcher {
	if auth == nil {
		auth = DenyMissingAuthContext
	}
	if sessions == nil {
		sessions = NewInMemorySessionStore(0)
	}
	return &Dispatcher{registry: registry, auth: auth, sessions: sessions}
}

// Dispatch runs the full pipeline for one call to name: lookup, input
// validation, authorization, session context load, handler invocation,
// and, for a non-streaming call whose handler succeeds, session context
// store.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, req Request) (Outcome, error) {
	log.Verbose(ctx, log.LevelDebug, "dispatching capability", "capability", name)

	rec, ok := d.registry.lookup(name)
	if !ok {
		notFound := &NotFoundError{Name: name}
		log.Problem(ctx, "capability not found", notFound)
		return Outcome{}, notFound
	}

	if len(rec.InputSchema) > 0 {
		if err := descriptor.ValidateAgainstSchema(rec.InputSchema, req.Params); err != nil {
			invalid := &InputValidationError{Name: name, Cause: err}
			log.Problem(ctx, "capability input validation failed", invalid)
			return Outcome{}, invalid
		}
	}

	if rec.RequiresAuth {
		if err := d.auth.Authorize(ctx, name, req); err != nil {
			denied := &AuthorizationError{Name: name, Cause: err}
			log.Problem(ctx, "capability authorization failed", denied)
			return Outcome{}, denied
		}
	}

	if req.SessionID == "" {
		req.SessionID = extractSessionID(req)
	}

	var handle *SessionHandle
	if rec.MemoryEnabled && req.SessionID != "" {
		handle = d.sessions.Acquire(req.SessionID)
		defer handle.Release()
		req.SessionContext = handle.Context()
	}

	if rec.Streaming {
		if rec.HandleStream == nil {
			return Outcome{}, &UnsupportedError{Name: name, Kind: "stream"}
		}
		return Outcome{Streaming: true, Stream: rec.HandleStream(ctx, req)}, nil
	}

	if rec.Handle == nil {
		return Outcome{}, &UnsupportedError{Name: name, Kind: "invoke"}
	}
	resp, err := rec.Handle(ctx, req)
	if err != nil {
		log.Error(ctx, "capability handler failed", err, "capability", name)
		return Outcome{}, err
	}
	if handle != nil {
		handle.SetContext(resp.SessionContext)
	}
	return Outcome{Response: resp}, nil
}

// extractSessionID reads a session id from the header or param names the
// wire format reserves for it, X-Session-ID and session_id, when the
// caller didn't already set Request.SessionID directly.
func extractSessionID(req Request) string {
	for _, key := range []string{"X-Session-ID", "X-Session-Id", "x-session-id"} {
		if v, ok := req.Headers[key]; ok && v != "" {
			return v
		}
	}
	if m, ok := req.Params.(map[string]any); ok {
		if v, ok := m["session_id"].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
