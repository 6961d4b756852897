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
)

// FormatHint selects the serialization shape produced by Serialize.
type FormatHint string

const (
	FormatCanonical FormatHint = "canonical"
	FormatJSONLD    FormatHint = "jsonld"
)

const defaultJSONLDContext = "https://agenturi.dev/contexts/agent-descriptor/v1"

// Serialize renders d as bytes. FormatCanonical omits @context entirely;
// FormatJSONLD ensures JSONLDContext is populated (defaulting it when the
// descriptor didn't set one) so the document is valid JSON-LD.
func Serialize(d AgentDescriptor, format FormatHint) ([]byte, error) {
	switch format {
	case FormatCanonical:
		cp := d
		cp.JSONLDContext = nil
		return json.MarshalIndent(cp, "", "  ")
	case FormatJSONLD:
		cp := d
		if cp.JSONLDContext == nil {
			cp.JSONLDContext = defaultJSONLDContext
		}
		return json.MarshalIndent(cp, "", "  ")
	default:
		return nil, fmt.Errorf("descriptor: unknown format hint %q", format)
	}
}
