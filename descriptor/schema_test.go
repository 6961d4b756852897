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

import "testing"

func TestValidateInputAcceptsMatchingPayload(t *testing.T) {
	cap := Capability{
		Name: "plan-itinerary",
		InputSchema: []byte(`{
			"type": "object",
			"required": ["city"],
			"properties": {"city": {"type": "string"}}
		}`),
	}
	if err := ValidateInput(cap, map[string]any{"city": "Paris"}); err != nil {
		t.Errorf("ValidateInput: unexpected error: %v", err)
	}
}

func TestValidateInputRejectsMismatchedPayload(t *testing.T) {
	cap := Capability{
		Name: "plan-itinerary",
		InputSchema: []byte(`{
			"type": "object",
			"required": ["city"],
			"properties": {"city": {"type": "string"}}
		}`),
	}
	err := ValidateInput(cap, map[string]any{"days": 3})
	if err == nil {
		t.Fatal("ValidateInput: expected error for missing required field")
	}
	se, ok := err.(*SchemaValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *SchemaValidationError", err)
	}
	if se.CapabilityName != "plan-itinerary" || se.Which != "input" {
		t.Errorf("SchemaValidationError = %+v, want capability/which tagged", se)
	}
}

func TestValidateAgainstSchemaAcceptsAnyValueWithoutSchema(t *testing.T) {
	if err := ValidateAgainstSchema(nil, map[string]any{"anything": true}); err != nil {
		t.Errorf("ValidateAgainstSchema: unexpected error with nil schema: %v", err)
	}
}
