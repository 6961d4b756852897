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
)

// FormatAgentCard is the one external format this package understands,
// deliberately shaped like the peer ecosystem's AgentCard document.
const FormatAgentCard = "agent-card"

// ToExternal maps d onto the named external format. FormatAgentCard maps:
// name, description and url map directly; provider.organization maps to
// provider.organization; each capability becomes one skill (one-to-one by
// name, capability.description becoming skill.description and
// capability.tags concatenated into the skill description);
// authentication.schemes maps identically.
func ToExternal(d AgentDescriptor, format string) (map[string]any, error) {
	if format != FormatAgentCard {
		return nil, fmt.Errorf("descriptor: unsupported external format %q", format)
	}

	card := map[string]any{
		"name":        d.Name,
		"description": d.Description,
		"url":         d.URL,
	}
	if d.Provider != nil {
		card["provider"] = map[string]any{"organization": d.Provider.Organization}
	}

	skills := make([]map[string]any, len(d.Capabilities))
	for i, cap := range d.Capabilities {
		desc := cap.Description
		if len(cap.Tags) > 0 {
			desc = strings.TrimSpace(desc + " [" + strings.Join(cap.Tags, ", ") + "]")
		}
		skills[i] = map[string]any{
			"id":          cap.Name,
			"name":        cap.Name,
			"description": desc,
		}
	}
	card["skills"] = skills

	if d.Authentication != nil {
		schemes := make([]string, len(d.Authentication.Schemes))
		for i, s := range d.Authentication.Schemes {
			schemes[i] = string(s)
		}
		card["authentication"] = map[string]any{"schemes": schemes}
	}

	return card, nil
}

// FromExternal reconstructs an AgentDescriptor from an external-format
// document. FormatAgentCard reconstructs capabilities from skills with
// synthesized default metadata (version, response latency, etc. are not
// recoverable from a card and are left at their zero value); the round
// trip through agent-card is lossy by construction.
func FromExternal(m map[string]any, format string) (AgentDescriptor, error) {
	if format != FormatAgentCard {
		return AgentDescriptor{}, fmt.Errorf("descriptor: unsupported external format %q", format)
	}

	d := AgentDescriptor{
		Name:        stringField(m, "name"),
		Description: stringField(m, "description"),
		URL:         stringField(m, "url"),
	}
	if p, ok := m["provider"].(map[string]any); ok {
		d.Provider = &Provider{Organization: stringField(p, "organization")}
	}

	if rawSkills, ok := m["skills"].([]any); ok {
		d.Skills = make([]Skill, 0, len(rawSkills))
		d.Capabilities = make([]Capability, 0, len(rawSkills))
		for _, rs := range rawSkills {
			s, ok := rs.(map[string]any)
			if !ok {
				continue
			}
			id := stringField(s, "id")
			name := stringField(s, "name")
			desc := stringField(s, "description")
			d.Skills = append(d.Skills, Skill{ID: id, Name: name, Description: desc})
			d.Capabilities = append(d.Capabilities, Capability{Name: name, Description: desc})
		}
	}

	if auth, ok := m["authentication"].(map[string]any); ok {
		if rawSchemes, ok := auth["schemes"].([]any); ok {
			schemes := make([]AuthenticationScheme, 0, len(rawSchemes))
			for _, rs := range rawSchemes {
				if s, ok := rs.(string); ok {
					schemes = append(schemes, AuthenticationScheme(s))
				}
			}
			d.Authentication = &Authentication{Schemes: schemes}
		}
	}

	return d, nil
}

// IsFormatCompatible reports whether d can be losslessly-enough mapped to
// format: agent-card requires at least one capability to map to a skill.
func IsFormatCompatible(d AgentDescriptor, format string) bool {
	if format != FormatAgentCard {
		return false
	}
	return len(d.Capabilities) > 0
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
