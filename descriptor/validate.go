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
	"regexp"
	"strings"
)

var semverLikePattern = regexp.MustCompile(`^\d+(\.\d+){0,2}([-+][0-9A-Za-z.-]+)?$`)

// endpointScheme maps a transport tag to the URL scheme its endpoint value
// must carry, per V6.
var endpointScheme = map[string]string{
	"https": "https",
	"http":  "http",
	"wss":   "wss",
	"ws":    "ws",
	"local": "local",
	"unix":  "unix",
	"matrix": "matrix",
	"grpc":  "grpc",
}

// Validate runs V1-V9 against d, returning every violation found; it does
// not stop at the first failure.
func Validate(d AgentDescriptor) ValidationResult {
	var errs []FieldError

	// V1: name present and non-empty.
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, FieldError{Path: "/name", Code: "V1", Message: "name is required and must be non-empty"})
	}

	// V2: version present. Callers constructing an AgentDescriptor from a
	// number-typed source stringify before reaching this type, so here we
	// only check presence.
	if strings.TrimSpace(d.Version) == "" {
		errs = append(errs, FieldError{Path: "/version", Code: "V2", Message: "version is required"})
	}

	// V3: capabilities present and non-empty.
	if len(d.Capabilities) == 0 {
		errs = append(errs, FieldError{Path: "/capabilities", Code: "V3", Message: "at least one capability is required"})
	}

	// V4: each capability has a non-empty name; names unique within the descriptor.
	seenCapNames := make(map[string]bool, len(d.Capabilities))
	for i, cap := range d.Capabilities {
		path := fmt.Sprintf("/capabilities/%d/name", i)
		if strings.TrimSpace(cap.Name) == "" {
			errs = append(errs, FieldError{Path: path, Code: "V4", Message: "capability name is required"})
			continue
		}
		if seenCapNames[cap.Name] {
			errs = append(errs, FieldError{Path: path, Code: "V4", Message: fmt.Sprintf("duplicate capability name %q", cap.Name)})
		}
		seenCapNames[cap.Name] = true
	}

	// V5: enum fields accept only listed values.
	if d.InteractionModel != "" && !validInteractionModels[d.InteractionModel] {
		errs = append(errs, FieldError{Path: "/interactionModel", Code: "V5", Message: fmt.Sprintf("unrecognized interaction model %q", d.InteractionModel)})
	}
	if d.Orchestration != "" && !validOrchestrations[d.Orchestration] {
		errs = append(errs, FieldError{Path: "/orchestration", Code: "V5", Message: fmt.Sprintf("unrecognized orchestration %q", d.Orchestration)})
	}
	if d.Status != "" && !validStatuses[d.Status] {
		errs = append(errs, FieldError{Path: "/status", Code: "V5", Message: fmt.Sprintf("unrecognized status %q", d.Status)})
	}
	for i, cap := range d.Capabilities {
		if cap.ExpectedOutputVariability != "" && !validVariabilities[cap.ExpectedOutputVariability] {
			errs = append(errs, FieldError{
				Path: fmt.Sprintf("/capabilities/%d/expectedOutputVariability", i), Code: "V5",
				Message: fmt.Sprintf("unrecognized expected output variability %q", cap.ExpectedOutputVariability),
			})
		}
		if cap.ResponseLatency != "" && !validLatencies[cap.ResponseLatency] {
			errs = append(errs, FieldError{
				Path: fmt.Sprintf("/capabilities/%d/responseLatency", i), Code: "V5",
				Message: fmt.Sprintf("unrecognized response latency %q", cap.ResponseLatency),
			})
		}
	}

	// V6: endpoints values are absolute URIs with a scheme matching their key.
	for tag, endpoint := range d.Endpoints {
		wantScheme, known := endpointScheme[tag]
		path := fmt.Sprintf("/endpoints/%s", tag)
		if !known {
			// Unknown transport tags are validated only for well-formedness
			// elsewhere (resolver's endpoint synthesis table); descriptor
			// validation only enforces the scheme match for known tags.
			continue
		}
		prefix := wantScheme + "://"
		if !strings.HasPrefix(endpoint, prefix) {
			errs = append(errs, FieldError{Path: path, Code: "V6", Message: fmt.Sprintf("endpoint for %q must start with %q", tag, prefix)})
		}
	}

	// V7: supported_versions keys match a semver-like shape.
	for v := range d.SupportedVersions {
		if !semverLikePattern.MatchString(v) {
			errs = append(errs, FieldError{Path: fmt.Sprintf("/supportedVersions/%s", v), Code: "V7", Message: fmt.Sprintf("version key %q is not semver-like", v)})
		}
	}

	// V8: authentication.schemes each from the closed set.
	if d.Authentication != nil {
		for i, scheme := range d.Authentication.Schemes {
			if !validAuthenticationSchemes[scheme] {
				errs = append(errs, FieldError{
					Path: fmt.Sprintf("/authentication/schemes/%d", i), Code: "V8",
					Message: fmt.Sprintf("unrecognized authentication scheme %q", scheme),
				})
			}
		}
	}

	// V9: skills[*].id unique.
	seenSkillIDs := make(map[string]bool, len(d.Skills))
	for i, skill := range d.Skills {
		path := fmt.Sprintf("/skills/%d/id", i)
		if strings.TrimSpace(skill.ID) == "" {
			errs = append(errs, FieldError{Path: path, Code: "V9", Message: "skill id is required"})
			continue
		}
		if seenSkillIDs[skill.ID] {
			errs = append(errs, FieldError{Path: path, Code: "V9", Message: fmt.Sprintf("duplicate skill id %q", skill.ID)})
		}
		seenSkillIDs[skill.ID] = true
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
