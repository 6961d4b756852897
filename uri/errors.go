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

package uri

import (
	"fmt"

	"github.com/agenturi/core/problem"
)

// ParseError reports a grammar violation. Position is the byte offset of
// the first bad byte in the original input, per P3.
type ParseError struct {
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("agent uri: parse error at byte %d: %s", e.Position, e.Reason)
}

// ToProblemDetail converts the error into the cross-transport envelope.
func (e *ParseError) ToProblemDetail() problem.Detail {
	return problem.New(problem.CodeParseError, e.Error()).
		WithExtension("position", e.Position)
}
