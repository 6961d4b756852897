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

// Package localbind implements the in-process transport binding (B3): a
// registry of local-agent name to handler function, with no network
// involved.
package localbind

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/agenturi/core/problem"
	"github.com/agenturi/core/transport"
)

// Handler serves a single invoke call for a local agent.
type Handler func(ctx context.Context, req transport.Request) (transport.Response, error)

// StreamHandler serves a streaming call for a local agent, returning a
// lazy sequence of chunks.
type StreamHandler func(ctx context.Context, req transport.Request) iter.Seq2[transport.Chunk, error]

// Registration is what a local agent installs under its name.
type Registration struct {
	Invoke Handler
	Stream StreamHandler
}

// Binding implements transport.Binding for B3. Request.Endpoint names the
// local agent to route to.
type Binding struct {
	mu       sync.RWMutex
	handlers map[string]Registration
	tag      string
}

// New builds an empty Binding reporting tag (typically "local") as its
// protocol tag.
func New(tag string) *Binding {
	return &Binding{handlers: make(map[string]Registration), tag: tag}
}

// RegisterHandler installs reg under name, replacing any previous
// registration.
func (b *Binding) RegisterHandler(name string, reg Registration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = reg
}

// Unregister removes name's registration, if any.
func (b *Binding) Unregister(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, name)
}

func (b *Binding) lookup(name string) (Registration, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	reg, ok := b.handlers[name]
	return reg, ok
}

func (b *Binding) ProtocolTag() string { return b.tag }

// Close is a no-op: B3 owns no network resources.
func (b *Binding) Close() error { return nil }

func notFoundError(name string) *transport.InvocationError {
	return transport.NewInvocationError(
		problem.New(problem.CodeCapabilityNotFound, fmt.Sprintf("no local agent registered as %q", name)).WithInstance(name),
	)
}

func unsupportedError(name, kind string) *transport.InvocationError {
	return transport.NewInvocationError(
		problem.New(problem.CodeUnknownTransport, fmt.Sprintf("local agent %q has no %s handler", name, kind)).WithInstance(name),
	)
}

// Invoke calls the registered handler synchronously.
func (b *Binding) Invoke(ctx context.Context, req transport.Request) (transport.Response, error) {
	reg, ok := b.lookup(req.Endpoint)
	if !ok {
		return transport.Response{}, notFoundError(req.Endpoint)
	}
	if reg.Invoke == nil {
		return transport.Response{}, unsupportedError(req.Endpoint, "invoke")
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	return reg.Invoke(ctx, req)
}

// Stream delegates to the registered stream handler, which is expected to
// return a lazy sequence.
func (b *Binding) Stream(ctx context.Context, req transport.Request) iter.Seq2[transport.Chunk, error] {
	return func(yield func(transport.Chunk, error) bool) {
		reg, ok := b.lookup(req.Endpoint)
		if !ok {
			yield(transport.Chunk{}, notFoundError(req.Endpoint))
			return
		}
		if reg.Stream == nil {
			yield(transport.Chunk{}, unsupportedError(req.Endpoint, "stream"))
			return
		}

		if req.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, req.Timeout)
			defer cancel()
		}

		for chunk, err := range reg.Stream(ctx, req) {
			if !yield(chunk, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}
