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

package transport

import (
	"fmt"

	"github.com/agenturi/core/problem"
)

// UnknownTransportError reports a Get for a tag with no registered
// constructor.
type UnknownTransportError struct {
	Tag string
}

func NewUnknownTransportError(tag string) *UnknownTransportError {
	return &UnknownTransportError{Tag: tag}
}

func (e *UnknownTransportError) Error() string {
	return fmt.Sprintf("transport: unknown protocol tag %q", e.Tag)
}

func (e *UnknownTransportError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeUnknownTransport, e.Error()).WithExtension("transport", e.Tag)
}

// InvocationError reports a non-success outcome from a Binding's Invoke or
// Stream: a parsed or synthesized ProblemDetail, plus the underlying
// transport-level error when one exists (connection reset, decode
// failure, ...).
type InvocationError struct {
	Detail problem.Detail
	Cause  error
}

func NewInvocationError(detail problem.Detail) *InvocationError {
	return &InvocationError{Detail: detail}
}

func (e *InvocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport: invocation failed: %s: %v", e.Detail.Detail, e.Cause)
	}
	return fmt.Sprintf("transport: invocation failed: %s", e.Detail.Detail)
}

func (e *InvocationError) Unwrap() error { return e.Cause }

func (e *InvocationError) ToProblemDetail() problem.Detail { return e.Detail }

// WithCause returns a copy of e with Cause set.
func (e *InvocationError) WithCause(cause error) *InvocationError {
	out := *e
	out.Cause = cause
	return &out
}
