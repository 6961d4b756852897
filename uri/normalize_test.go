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

package uri

import "testing"

func TestNormalizeCollapsesTrailingSlashOnlyPath(t *testing.T) {
	u, err := Parse("agent://Directory.Example.com/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := Normalize(u)
	if got.HasPath() {
		t.Errorf("HasPath() = true, want false after collapsing bare \"/\"")
	}
	if got.Host != "directory.example.com" {
		t.Errorf("Host = %q, want lowercased", got.Host)
	}
}

func TestNormalizeKeepsRootPathWhenQueryPresent(t *testing.T) {
	u, err := Parse("agent://directory.example.com/?debug")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := Normalize(u)
	if !got.HasPath() {
		t.Errorf("HasPath() = false, want true when a query follows the root path")
	}
}

func TestNormalizeResolvesDotSegments(t *testing.T) {
	u, err := Parse("agent://directory.example.com/a/./b/../c")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := Normalize(u)
	want := []string{"a", "c"}
	if len(got.PathSegments) != len(want) {
		t.Fatalf("PathSegments = %v, want %v", got.PathSegments, want)
	}
	for i := range want {
		if got.PathSegments[i] != want[i] {
			t.Errorf("PathSegments[%d] = %q, want %q", i, got.PathSegments[i], want[i])
		}
	}
}

func TestNormalizeDropsEmptyInteriorSegments(t *testing.T) {
	cases := map[string][]string{
		"agent://directory.example.com/foo//bar": {"foo", "bar"},
		"agent://directory.example.com/foo/":     {"foo"},
		"agent://directory.example.com//":        {},
	}
	for raw, want := range cases {
		u, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		got := Normalize(u).PathSegments
		if len(got) != len(want) {
			t.Fatalf("Normalize(%q).PathSegments = %v, want %v", raw, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Normalize(%q).PathSegments[%d] = %q, want %q", raw, i, got[i], want[i])
			}
		}
	}
}

func TestNormalizeStripsDefaultPort(t *testing.T) {
	cases := map[string]int{
		"agent+wss://host:443/":   0,
		"agent+https://host:443/": 0,
		"agent+http://host:80/":   0,
		"agent+ws://host:80/":     0,
		"agent+wss://host:8443/":  8443,
	}
	for in, want := range cases {
		u, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		got := Normalize(u).Port
		if got != want {
			t.Errorf("Normalize(%q).Port = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizeDropsEmptyQuery(t *testing.T) {
	u, err := Parse("agent://host?")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := Normalize(u)
	if got.HasQuery() {
		t.Errorf("HasQuery() = true, want false after dropping an empty query")
	}
}

func TestNormalizeDropsEmptyFragment(t *testing.T) {
	u, err := Parse("agent://host#")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := Normalize(u)
	if got.HasFragment() {
		t.Errorf("HasFragment() = true, want false after dropping an empty fragment")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"agent://directory.example.com/",
		"agent://directory.example.com/a/./b/../c",
		"agent+GRPC://Host:8443/x?y=1#z",
		"agent://did:example:123456",
	}
	for _, in := range inputs {
		u, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		once := Normalize(u)
		twice := Normalize(once)
		if Serialize(once) != Serialize(twice) {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, Serialize(once), Serialize(twice))
		}
	}
}
