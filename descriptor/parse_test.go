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

func TestParseStringifiesNumericVersion(t *testing.T) {
	doc := `{"name":"trip-planner","version":2,"capabilities":[{"name":"plan-itinerary"}]}`
	d, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Version != "2" {
		t.Errorf("Version = %q, want %q", d.Version, "2")
	}
}

func TestParseAcceptsStringVersion(t *testing.T) {
	doc := `{"name":"trip-planner","version":"1.2.3","capabilities":[{"name":"plan-itinerary"}]}`
	d, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", d.Version, "1.2.3")
	}
}

func TestParseFailsValidationReturnsValidationError(t *testing.T) {
	doc := `{"name":"","version":"1.0.0","capabilities":[]}`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("Parse: expected error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if !hasCode(ve.Errors, "V1") || !hasCode(ve.Errors, "V3") {
		t.Errorf("errors = %v, want both V1 and V3", ve.Errors)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	if err == nil {
		t.Fatal("Parse: expected error, got nil")
	}
}
