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
	"fmt"

	"github.com/agenturi/core/problem"
)

// ResolutionError is the base failure type: every other resolver error
// embeds it so callers can type-switch on the concrete kind or fall back
// to matching ResolutionError.
type ResolutionError struct {
	Kind   string
	Origin string
	Cause  error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resolver: %s for %q: %v", e.Kind, e.Origin, e.Cause)
	}
	return fmt.Sprintf("resolver: %s for %q", e.Kind, e.Origin)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

func (e *ResolutionError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeResolutionError, e.Error()).WithInstance(e.Origin)
}

// NotFoundError reports that no resolution strategy produced a descriptor
// and no explicit transport was present.
type NotFoundError struct{ *ResolutionError }

func NewNotFoundError(origin string) *NotFoundError {
	return &NotFoundError{&ResolutionError{Kind: "not found", Origin: origin}}
}

// TimeoutError reports that a fetch exceeded its deadline.
type TimeoutError struct{ *ResolutionError }

func NewTimeoutError(origin string, cause error) *TimeoutError {
	return &TimeoutError{&ResolutionError{Kind: "timeout", Origin: origin, Cause: cause}}
}

func (e *TimeoutError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeTimeoutError, e.Error()).WithInstance(e.Origin)
}

// NetworkError reports a transport-level failure reaching a well-known
// document.
type NetworkError struct{ *ResolutionError }

func NewNetworkError(origin string, cause error) *NetworkError {
	return &NetworkError{&ResolutionError{Kind: "network error", Origin: origin, Cause: cause}}
}

func (e *NetworkError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeNetworkError, e.Error()).WithInstance(e.Origin)
}

// DescriptorValidationError reports that a descriptor was fetched but
// failed validation.
type DescriptorValidationError struct{ *ResolutionError }

func NewDescriptorValidationError(origin string, cause error) *DescriptorValidationError {
	return &DescriptorValidationError{&ResolutionError{Kind: "invalid descriptor", Origin: origin, Cause: cause}}
}

func (e *DescriptorValidationError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeValidationError, e.Error()).WithInstance(e.Origin)
}

// UnknownTransportError reports that a URI's transport tag has neither a
// fixed scheme entry nor a descriptor endpoint override.
type UnknownTransportError struct{ *ResolutionError }

func NewUnknownTransportError(tag string) *UnknownTransportError {
	return &UnknownTransportError{&ResolutionError{Kind: "unknown transport", Origin: tag}}
}

func (e *UnknownTransportError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeUnknownTransport, e.Error()).WithExtension("transport", e.Origin)
}
