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

// Package capability is the server-side helper sitting on top of transport:
// a registry of named, described capabilities and a dispatcher that
// validates input, applies an authentication policy, invokes the matching
// handler, and adapts session state and streaming across calls.
package capability

import (
	"context"
	"encoding/json"
	"iter"

	"github.com/agenturi/core/descriptor"
	"github.com/agenturi/core/transport"
)

// Request is what a dispatcher hands to a Handler: the invocation params
// plus whatever ambient context the transport layer collected.
type Request struct {
	Params         any
	Headers        map[string]string
	AuthContext    any
	SessionID      string
	SessionContext any
}

// Response is what a Handler returns for a non-streaming capability. When
// the capability has MemoryEnabled set, SessionContext is stored and
// handed back on the next Request with the same SessionID.
type Response struct {
	Result         any
	SessionContext any
}

// Handler serves a non-streaming capability invocation.
type Handler func(ctx context.Context, req Request) (Response, error)

// StreamHandler serves a streaming capability invocation, returning a lazy
// sequence of chunks the way a transport.Binding's Stream does.
type StreamHandler func(ctx context.Context, req Request) iter.Seq2[transport.Chunk, error]

// Record is the design-time description of one capability: everything
// needed to validate calls against it, describe it in a derived
// AgentDescriptor, and route a dispatch to its handler.
type Record struct {
	Name        string
	Version     string
	Tags        []string
	Description string

	InputSchema  json.RawMessage
	OutputSchema json.RawMessage

	Streaming       bool
	MemoryEnabled   bool
	IsDeterministic bool
	RequiresAuth    bool

	Handle       Handler
	HandleStream StreamHandler
}

func (r Record) toDescriptorCapability() descriptor.Capability {
	return descriptor.Capability{
		Name:            r.Name,
		Version:         r.Version,
		Description:     r.Description,
		Tags:            r.Tags,
		InputSchema:     r.InputSchema,
		OutputSchema:    r.OutputSchema,
		Streaming:       r.Streaming,
		MemoryEnabled:   r.MemoryEnabled,
		IsDeterministic: r.IsDeterministic,
		RequiresAuth:    r.RequiresAuth,
	}
}
