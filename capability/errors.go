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

	"github.com/agenturi/core/problem"
)

// NotFoundError reports a Dispatch against an unregistered capability name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("capability: %q not found", e.Name)
}

func (e *NotFoundError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeCapabilityNotFound, e.Error()).WithInstance(e.Name)
}

// UnsupportedError reports a capability record missing the handler kind a
// dispatch needs (invoke vs stream).
type UnsupportedError struct {
	Name string
	Kind string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("capability: %q has no %s handler", e.Name, e.Kind)
}

func (e *UnsupportedError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeUnknownTransport, e.Error()).WithInstance(e.Name)
}

// InputValidationError wraps a schema validation failure with the offending
// capability name.
type InputValidationError struct {
	Name  string
	Cause error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("capability %q: invalid input: %v", e.Name, e.Cause)
}

func (e *InputValidationError) Unwrap() error { return e.Cause }

func (e *InputValidationError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeValidationError, e.Error()).WithInstance(e.Name)
}

// AuthorizationError reports that a RequiresAuth capability rejected the
// call's AuthContext.
type AuthorizationError struct {
	Name  string
	Cause error
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("capability %q: authorization failed: %v", e.Name, e.Cause)
}

func (e *AuthorizationError) Unwrap() error { return e.Cause }

func (e *AuthorizationError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeAuthenticationFailed, e.Error()).WithInstance(e.Name)
}
