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

// Package descriptor represents, validates, parses and serializes the
// self-describing "agent.json" document, with a compatibility mapping to
// the peer "agent-card" shape.
package descriptor

import "encoding/json"

// InteractionModel is the closed set of values for AgentDescriptor.InteractionModel.
type InteractionModel string

const (
	InteractionModelAgent2Agent InteractionModel = "agent2agent"
	InteractionModelFIPAACL     InteractionModel = "fipa-acl"
	InteractionModelKQML        InteractionModel = "kqml"
	InteractionModelContractNet InteractionModel = "contract-net"
	InteractionModelEmergent    InteractionModel = "emergent"
)

var validInteractionModels = map[InteractionModel]bool{
	InteractionModelAgent2Agent: true,
	InteractionModelFIPAACL:     true,
	InteractionModelKQML:        true,
	InteractionModelContractNet: true,
	InteractionModelEmergent:    true,
}

// Orchestration is the closed set of values for AgentDescriptor.Orchestration.
type Orchestration string

const (
	OrchestrationDelegation  Orchestration = "delegation"
	OrchestrationComposition Orchestration = "composition"
	OrchestrationChoreography Orchestration = "choreography"
	OrchestrationStandalone  Orchestration = "standalone"
)

var validOrchestrations = map[Orchestration]bool{
	OrchestrationDelegation:   true,
	OrchestrationComposition:  true,
	OrchestrationChoreography: true,
	OrchestrationStandalone:   true,
}

// AuthenticationScheme is the closed set of values accepted in
// Authentication.Schemes.
type AuthenticationScheme string

const (
	AuthenticationSchemeNone   AuthenticationScheme = "None"
	AuthenticationSchemeBearer AuthenticationScheme = "Bearer"
	AuthenticationSchemeAPIKey AuthenticationScheme = "ApiKey"
	AuthenticationSchemeOAuth2 AuthenticationScheme = "OAuth2"
	AuthenticationSchemeJWT    AuthenticationScheme = "JWT"
	AuthenticationSchemeMTLS   AuthenticationScheme = "mTLS"
)

var validAuthenticationSchemes = map[AuthenticationScheme]bool{
	AuthenticationSchemeNone:   true,
	AuthenticationSchemeBearer: true,
	AuthenticationSchemeAPIKey: true,
	AuthenticationSchemeOAuth2: true,
	AuthenticationSchemeJWT:    true,
	AuthenticationSchemeMTLS:   true,
}

// Status is the closed set of values for AgentDescriptor.Status.
type Status string

const (
	StatusActive       Status = "active"
	StatusDeprecated   Status = "deprecated"
	StatusExperimental Status = "experimental"
	StatusBeta         Status = "beta"
)

var validStatuses = map[Status]bool{
	StatusActive:       true,
	StatusDeprecated:   true,
	StatusExperimental: true,
	StatusBeta:         true,
}

// ExpectedOutputVariability is the closed set of values for
// Capability.ExpectedOutputVariability.
type ExpectedOutputVariability string

const (
	VariabilityNone   ExpectedOutputVariability = "none"
	VariabilityLow    ExpectedOutputVariability = "low"
	VariabilityMedium ExpectedOutputVariability = "medium"
	VariabilityHigh   ExpectedOutputVariability = "high"
)

var validVariabilities = map[ExpectedOutputVariability]bool{
	VariabilityNone:   true,
	VariabilityLow:    true,
	VariabilityMedium: true,
	VariabilityHigh:   true,
}

// ResponseLatency is the closed set of values for Capability.ResponseLatency.
type ResponseLatency string

const (
	LatencyLow    ResponseLatency = "low"
	LatencyMedium ResponseLatency = "medium"
	LatencyHigh   ResponseLatency = "high"
)

var validLatencies = map[ResponseLatency]bool{
	LatencyLow:    true,
	LatencyMedium: true,
	LatencyHigh:   true,
}

// Provider carries service-provider metadata about the entity operating an
// agent.
type Provider struct {
	Organization string `json:"organization" yaml:"organization" mapstructure:"organization"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url,omitempty"`
}

// Authentication declares which authentication schemes an agent accepts,
// plus provider-opaque configuration details.
type Authentication struct {
	Schemes []AuthenticationScheme `json:"schemes,omitempty" yaml:"schemes,omitempty" mapstructure:"schemes,omitempty"`
	Details map[string]any         `json:"details,omitempty" yaml:"details,omitempty" mapstructure:"details,omitempty"`
}

// Skill is a named, human-facing capability summary distinct from the
// machine-facing Capability record.
type Skill struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description,omitempty"`
}

// ContentTypes lists the media types a capability accepts and produces.
type ContentTypes struct {
	Input  []string `json:"input,omitempty" yaml:"input,omitempty" mapstructure:"input,omitempty"`
	Output []string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output,omitempty"`
}

// Example is one input/output pair illustrating a capability's behavior.
type Example struct {
	Input       any    `json:"input" yaml:"input" mapstructure:"input"`
	Output      any    `json:"output" yaml:"output" mapstructure:"output"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description,omitempty"`
}

// Capability describes one thing an agent can do: a machine-facing
// invocation contract with optional JSON-schema-shaped input/output
// validation.
type Capability struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description,omitempty"`

	// InputSchema and OutputSchema are opaque JSON Schema documents,
	// validated lazily by gojsonschema at the point of use rather than at
	// construction time.
	InputSchema  json.RawMessage `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty" mapstructure:"inputSchema,omitempty"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty" yaml:"outputSchema,omitempty" mapstructure:"outputSchema,omitempty"`

	RequiresAuth              bool                      `json:"requiresAuth,omitempty" yaml:"requiresAuth,omitempty" mapstructure:"requiresAuth,omitempty"`
	IsDeterministic           bool                      `json:"isDeterministic,omitempty" yaml:"isDeterministic,omitempty" mapstructure:"isDeterministic,omitempty"`
	ExpectedOutputVariability ExpectedOutputVariability `json:"expectedOutputVariability,omitempty" yaml:"expectedOutputVariability,omitempty" mapstructure:"expectedOutputVariability,omitempty"`
	ContentTypes              ContentTypes              `json:"contentTypes,omitempty" yaml:"contentTypes,omitempty" mapstructure:"contentTypes,omitempty"`
	RequiresContext           bool                      `json:"requiresContext,omitempty" yaml:"requiresContext,omitempty" mapstructure:"requiresContext,omitempty"`
	MemoryEnabled             bool                      `json:"memoryEnabled,omitempty" yaml:"memoryEnabled,omitempty" mapstructure:"memoryEnabled,omitempty"`
	ResponseLatency           ResponseLatency           `json:"responseLatency,omitempty" yaml:"responseLatency,omitempty" mapstructure:"responseLatency,omitempty"`
	Streaming                 bool                      `json:"streaming,omitempty" yaml:"streaming,omitempty" mapstructure:"streaming,omitempty"`
	Tags                      []string                  `json:"tags,omitempty" yaml:"tags,omitempty" mapstructure:"tags,omitempty"`
	Deprecated                bool                      `json:"deprecated,omitempty" yaml:"deprecated,omitempty" mapstructure:"deprecated,omitempty"`
	DeprecatedReason          string                    `json:"deprecatedReason,omitempty" yaml:"deprecatedReason,omitempty" mapstructure:"deprecatedReason,omitempty"`
	Examples                  []Example                 `json:"examples,omitempty" yaml:"examples,omitempty" mapstructure:"examples,omitempty"`
}

// AgentDescriptor is the self-describing "agent.json" document: a value
// type produced by Parse or built programmatically, never mutated once
// constructed. Callers that want a modified copy build a new value.
type AgentDescriptor struct {
	Name         string       `json:"name" yaml:"name" mapstructure:"name"`
	Version      string       `json:"version" yaml:"version" mapstructure:"version"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities" mapstructure:"capabilities"`

	Description       string            `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description,omitempty"`
	URL                string            `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url,omitempty"`
	Provider           *Provider         `json:"provider,omitempty" yaml:"provider,omitempty" mapstructure:"provider,omitempty"`
	DocumentationURL   string            `json:"documentationUrl,omitempty" yaml:"documentationUrl,omitempty" mapstructure:"documentationUrl,omitempty"`
	InteractionModel   InteractionModel  `json:"interactionModel,omitempty" yaml:"interactionModel,omitempty" mapstructure:"interactionModel,omitempty"`
	Orchestration      Orchestration     `json:"orchestration,omitempty" yaml:"orchestration,omitempty" mapstructure:"orchestration,omitempty"`
	EnvelopeSchemas    []string          `json:"envelopeSchemas,omitempty" yaml:"envelopeSchemas,omitempty" mapstructure:"envelopeSchemas,omitempty"`
	SupportedVersions  map[string]string `json:"supportedVersions,omitempty" yaml:"supportedVersions,omitempty" mapstructure:"supportedVersions,omitempty"`
	Authentication     *Authentication   `json:"authentication,omitempty" yaml:"authentication,omitempty" mapstructure:"authentication,omitempty"`
	Skills             []Skill           `json:"skills,omitempty" yaml:"skills,omitempty" mapstructure:"skills,omitempty"`
	Endpoints          map[string]string `json:"endpoints,omitempty" yaml:"endpoints,omitempty" mapstructure:"endpoints,omitempty"`
	Status             Status            `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status,omitempty"`
	TermsOfService     string            `json:"termsOfService,omitempty" yaml:"termsOfService,omitempty" mapstructure:"termsOfService,omitempty"`
	Privacy            string            `json:"privacy,omitempty" yaml:"privacy,omitempty" mapstructure:"privacy,omitempty"`
	Contact            string            `json:"contact,omitempty" yaml:"contact,omitempty" mapstructure:"contact,omitempty"`
	JSONLDContext      any               `json:"@context,omitempty" yaml:"jsonldContext,omitempty" mapstructure:"jsonldContext,omitempty"`
}
