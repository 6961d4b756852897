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

func validDescriptor() AgentDescriptor {
	return AgentDescriptor{
		Name:    "trip-planner",
		Version: "1.0.0",
		Capabilities: []Capability{
			{Name: "plan-itinerary"},
		},
	}
}

func hasCode(errs []FieldError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateAcceptsMinimalDescriptor(t *testing.T) {
	result := Validate(validDescriptor())
	if !result.Valid {
		t.Fatalf("Validate() = invalid, errors: %v", result.Errors)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*AgentDescriptor)
		wantCode string
	}{
		{"missing name", func(d *AgentDescriptor) { d.Name = "" }, "V1"},
		{"missing version", func(d *AgentDescriptor) { d.Version = "" }, "V2"},
		{"empty capabilities", func(d *AgentDescriptor) { d.Capabilities = nil }, "V3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDescriptor()
			tc.mutate(&d)
			result := Validate(d)
			if result.Valid {
				t.Fatalf("Validate() = valid, want invalid with code %s", tc.wantCode)
			}
			if !hasCode(result.Errors, tc.wantCode) {
				t.Errorf("errors = %v, want one with code %s", result.Errors, tc.wantCode)
			}
		})
	}
}

func TestValidateDuplicateCapabilityNames(t *testing.T) {
	d := validDescriptor()
	d.Capabilities = append(d.Capabilities, Capability{Name: "plan-itinerary"})
	result := Validate(d)
	if result.Valid {
		t.Fatal("Validate() = valid, want invalid for duplicate capability name")
	}
	if !hasCode(result.Errors, "V4") {
		t.Errorf("errors = %v, want V4", result.Errors)
	}
}

func TestValidateEnumFields(t *testing.T) {
	d := validDescriptor()
	d.InteractionModel = "not-a-real-model"
	result := Validate(d)
	if result.Valid || !hasCode(result.Errors, "V5") {
		t.Errorf("errors = %v, want V5 violation", result.Errors)
	}
}

func TestValidateEndpointSchemeMismatch(t *testing.T) {
	d := validDescriptor()
	d.Endpoints = map[string]string{"https": "http://wrong-scheme.example.com"}
	result := Validate(d)
	if result.Valid || !hasCode(result.Errors, "V6") {
		t.Errorf("errors = %v, want V6 violation", result.Errors)
	}
}

func TestValidateSupportedVersionsShape(t *testing.T) {
	d := validDescriptor()
	d.SupportedVersions = map[string]string{"not-semver!!": "/v-bad"}
	result := Validate(d)
	if result.Valid || !hasCode(result.Errors, "V7") {
		t.Errorf("errors = %v, want V7 violation", result.Errors)
	}
}

func TestValidateAuthenticationSchemes(t *testing.T) {
	d := validDescriptor()
	d.Authentication = &Authentication{Schemes: []AuthenticationScheme{"Kerberos"}}
	result := Validate(d)
	if result.Valid || !hasCode(result.Errors, "V8") {
		t.Errorf("errors = %v, want V8 violation", result.Errors)
	}
}

func TestValidateDuplicateSkillIDs(t *testing.T) {
	d := validDescriptor()
	d.Skills = []Skill{{ID: "s1", Name: "a"}, {ID: "s1", Name: "b"}}
	result := Validate(d)
	if result.Valid || !hasCode(result.Errors, "V9") {
		t.Errorf("errors = %v, want V9 violation", result.Errors)
	}
}
