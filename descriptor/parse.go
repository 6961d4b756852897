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
	"bytes"
	"encoding/json"
	"fmt"
)

// rawDescriptor mirrors AgentDescriptor but accepts Version as either a
// JSON string or a JSON number, per V2 ("if integer/number, stringified
// for storage").
type rawDescriptor struct {
	AgentDescriptor
	Version any `json:"version"`
}

// Parse decodes b as an agent.json document and validates it, returning a
// *ValidationError listing every violation if any V1-V9 rule fails.
func Parse(b []byte) (AgentDescriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw rawDescriptor
	if err := dec.Decode(&raw); err != nil {
		return AgentDescriptor{}, &ValidationError{Errors: []FieldError{
			{Path: "", Code: "V0", Message: fmt.Sprintf("malformed JSON: %v", err)},
		}}
	}

	d := raw.AgentDescriptor
	switch v := raw.Version.(type) {
	case string:
		d.Version = v
	case json.Number:
		d.Version = v.String()
	}

	result := Validate(d)
	if !result.Valid {
		return AgentDescriptor{}, &ValidationError{Errors: result.Errors}
	}
	return d, nil
}

// MustParse is Parse but panics on failure; intended for test fixtures and
// program-startup descriptor loading where a bad document is a fatal
// configuration error.
func MustParse(b []byte) AgentDescriptor {
	d, err := Parse(b)
	if err != nil {
		panic(err)
	}
	return d
}
