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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidationError reports that a value failed JSON Schema validation
// against a capability's input_schema or output_schema.
type SchemaValidationError struct {
	CapabilityName string
	Which          string // "input" or "output"
	Reasons        []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("capability %q: %s validation failed: %s", e.CapabilityName, e.Which, strings.Join(e.Reasons, "; "))
}

// ValidateAgainstSchema validates value (any JSON-marshalable Go value)
// against schema (a raw JSON Schema document). A nil or empty schema
// accepts any value.
func ValidateAgainstSchema(schema json.RawMessage, value any) error {
	if len(schema) == 0 {
		return nil
	}
	valueBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value for schema validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(valueBytes),
	)
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	reasons := make([]string, len(result.Errors()))
	for i, e := range result.Errors() {
		reasons[i] = e.String()
	}
	return &SchemaValidationError{Reasons: reasons}
}

// ValidateInput validates params against cap.InputSchema, tagging any
// resulting SchemaValidationError with the capability name.
func ValidateInput(cap Capability, params any) error {
	err := ValidateAgainstSchema(cap.InputSchema, params)
	return tagSchemaError(err, cap.Name, "input")
}

// ValidateOutput validates result against cap.OutputSchema, tagging any
// resulting SchemaValidationError with the capability name.
func ValidateOutput(cap Capability, result any) error {
	err := ValidateAgainstSchema(cap.OutputSchema, result)
	return tagSchemaError(err, cap.Name, "output")
}

func tagSchemaError(err error, capName, which string) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SchemaValidationError); ok {
		se.CapabilityName = capName
		se.Which = which
		return se
	}
	return err
}
