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
	"fmt"
	"sync"

	"github.com/agenturi/core/descriptor"
	"github.com/agenturi/core/problem"
)

// DuplicateNameError is returned by Registry.Register for a name already
// registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("capability: %q already registered", e.Name)
}

func (e *DuplicateNameError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeValidationError, e.Error()).WithExtension("capability", e.Name)
}

// Registry holds capability records in registration order, the way the
// teacher's a2asrv.RequestHandler is built up through an ordered option
// list rather than an unordered map alone.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Record
	order  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Record)}
}

// Register installs rec under rec.Name. Registering the same name twice
// returns a *DuplicateNameError and leaves the existing record untouched.
func (r *Registry) Register(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[rec.Name]; exists {
		return &DuplicateNameError{Name: rec.Name}
	}
	r.byName[rec.Name] = rec
	r.order = append(r.order, rec.Name)
	return nil
}

// List returns every registered Record in registration order.
func (r *Registry) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

func (r *Registry) lookup(name string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byName[name]
	return rec, ok
}

// DeriveDescriptor synthesizes an AgentDescriptor by concatenating meta
// (name, version, provider, ... everything but Capabilities) with the
// registry's current capability list, in registration order.
func (r *Registry) DeriveDescriptor(meta descriptor.AgentDescriptor) descriptor.AgentDescriptor {
	recs := r.List()
	out := meta
	out.Capabilities = make([]descriptor.Capability, len(recs))
	for i, rec := range recs {
		out.Capabilities[i] = rec.toDescriptorCapability()
	}
	return out
}
