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

package descriptor

import (
	"fmt"
	"strings"

	"github.com/agenturi/core/problem"
)

// FieldError is one validation failure: a JSON-pointer path, a stable
// rule code (e.g. "V1"), and a human-readable message.
type FieldError struct {
	Path    string
	Code    string
	Message string
}

// ValidationResult is the return value of Validate: whether the descriptor
// is valid, and the full list of violations found (validation does not
// stop at the first error).
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// ValidationError is raised by Parse when the decoded document fails
// validation; it carries the same FieldError list as ValidationResult.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fmt.Sprintf("%s: %s (%s)", fe.Path, fe.Message, fe.Code)
	}
	return fmt.Sprintf("descriptor validation failed: %s", strings.Join(msgs, "; "))
}

// ToProblemDetail converts the error into the cross-transport envelope,
// carrying the full violation list as an extension.
func (e *ValidationError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeValidationError, e.Error()).
		WithExtension("violations", e.Errors)
}
