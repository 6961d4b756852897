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

// Package problem defines the cross-transport structured error envelope
// (Detail, modeled on RFC 7807) and the stable error taxonomy shared by
// every layer of the agent:// protocol core. It sits below uri, descriptor,
// resolver, transport and capability in the dependency graph so that any of
// those packages can produce a Detail without importing one another.
package problem

import (
	"encoding/json"
	"fmt"
)

// Code is a stable numeric category for a failure. 4xxx codes are caller
// faults, 5xxx codes are system faults.
type Code int

const (
	CodeParseError            Code = 4001
	CodeValidationError       Code = 4002
	CodeUnknownTransport      Code = 4003
	CodeCapabilityNotFound    Code = 4004
	CodeAuthenticationFailed  Code = 4005
	CodePermissionDenied      Code = 4006
	CodeInvalidInput          Code = 4007
	CodeRateLimited           Code = 4029
	CodeNetworkError          Code = 5001
	CodeTimeoutError          Code = 5002
	CodeUpstreamError         Code = 5003
	CodeResolutionError       Code = 5004
	CodeInternalError         Code = 5005
)

// httpStatus mirrors HTTP semantics even for non-HTTP transports, per §3.
var httpStatus = map[Code]int{
	CodeParseError:           400,
	CodeValidationError:      400,
	CodeUnknownTransport:     400,
	CodeCapabilityNotFound:   404,
	CodeAuthenticationFailed: 401,
	CodePermissionDenied:     403,
	CodeInvalidInput:         400,
	CodeRateLimited:          429,
	CodeNetworkError:         502,
	CodeTimeoutError:         504,
	CodeUpstreamError:        502,
	CodeResolutionError:      404,
	CodeInternalError:        500,
}

// title is the stable, human-readable name of a Code.
var title = map[Code]string{
	CodeParseError:           "Parse Error",
	CodeValidationError:      "Validation Error",
	CodeUnknownTransport:     "Unknown Transport",
	CodeCapabilityNotFound:   "Capability Not Found",
	CodeAuthenticationFailed: "Authentication Failed",
	CodePermissionDenied:     "Permission Denied",
	CodeInvalidInput:         "Invalid Input",
	CodeRateLimited:          "Rate Limited",
	CodeNetworkError:         "Network Error",
	CodeTimeoutError:         "Timeout",
	CodeUpstreamError:        "Upstream Error",
	CodeResolutionError:      "Resolution Error",
	CodeInternalError:        "Internal Error",
}

// typeURI is the stable identifier per error category, used as the RFC 7807
// "type" field. Callers that want a real dereferenceable URI can override it
// via Detail.Type before serializing.
const typeURIBase = "https://agenturi.dev/problems/"

func typeURIFor(c Code) string {
	return fmt.Sprintf("%s%d", typeURIBase, int(c))
}

// IsClientFault reports whether the code belongs to the 4xxx family.
func (c Code) IsClientFault() bool { return c >= 4000 && c < 5000 }

// IsSystemFault reports whether the code belongs to the 5xxx family.
func (c Code) IsSystemFault() bool { return c >= 5000 && c < 6000 }

// Detail is the RFC 7807-inspired structured error envelope every layer of
// the core converts its typed failures into before crossing a transport
// boundary.
type Detail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// New builds a Detail for the given Code, filling Type/Title/Status from the
// taxonomy table and leaving Detail/Instance/Extensions to the caller.
func New(code Code, detail string) Detail {
	return Detail{
		Type:   typeURIFor(code),
		Title:  title[code],
		Status: httpStatus[code],
		Detail: detail,
	}
}

// MarshalJSON flattens Extensions alongside the fixed RFC 7807 members, the
// way application/problem+json is meant to carry them on the wire.
func (d Detail) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5+len(d.Extensions))
	for k, v := range d.Extensions {
		out[k] = v
	}
	out["type"] = d.Type
	out["title"] = d.Title
	out["status"] = d.Status
	if d.Detail != "" {
		out["detail"] = d.Detail
	}
	if d.Instance != "" {
		out["instance"] = d.Instance
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses a Detail from application/problem+json, collecting
// any member beyond the fixed RFC 7807 fields into Extensions.
func (d *Detail) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	fixed := Detail{}
	if v, ok := raw["type"].(string); ok {
		fixed.Type = v
	}
	if v, ok := raw["title"].(string); ok {
		fixed.Title = v
	}
	if v, ok := raw["status"].(float64); ok {
		fixed.Status = int(v)
	}
	if v, ok := raw["detail"].(string); ok {
		fixed.Detail = v
	}
	if v, ok := raw["instance"].(string); ok {
		fixed.Instance = v
	}
	for _, key := range []string{"type", "title", "status", "detail", "instance"} {
		delete(raw, key)
	}
	if len(raw) > 0 {
		fixed.Extensions = raw
	}
	*d = fixed
	return nil
}

// WithInstance returns a copy of d with Instance set.
func (d Detail) WithInstance(instance string) Detail {
	d.Instance = instance
	return d
}

// WithExtension returns a copy of d with the given extension key set.
func (d Detail) WithExtension(key string, value any) Detail {
	out := d
	out.Extensions = make(map[string]any, len(d.Extensions)+1)
	for k, v := range d.Extensions {
		out.Extensions[k] = v
	}
	out.Extensions[key] = value
	return out
}

// Error is a typed failure carrying a Detail, implementing the error
// interface in the manner of the teacher's a2a.Error / jsonrpc.Error types:
// a struct with an Error() string method, matched via errors.Is/errors.As
// rather than sentinel string comparisons.
type Error struct {
	Code   Code
	Detail Detail
	// Cause is the underlying error, if any, preserved for errors.Unwrap.
	Cause error
}

func NewError(code Code, detail string) *Error {
	return &Error{Code: code, Detail: New(code, detail)}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Title, e.Detail.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Title, e.Detail.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

// ToProblemDetail satisfies the informal "convert to a Detail" contract used
// throughout the core.
func (e *Error) ToProblemDetail() Detail { return e.Detail }

// WithCause returns a copy of e with Cause set.
func (e *Error) WithCause(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
}

// WithInstance returns a copy of e with Detail.Instance set.
func (e *Error) WithInstance(instance string) *Error {
	out := *e
	out.Detail = out.Detail.WithInstance(instance)
	return &out
}
