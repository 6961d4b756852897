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

func TestSerializeRoundTrip(t *testing.T) {
	inputs := []string{
		"agent://directory.example.com",
		"agent+grpc://svc.internal:8443",
		"agent://directory.example.com/billing",
		"agent://directory.example.com/",
		"agent://directory.example.com?debug&version=2",
		"agent://directory.example.com?",
		"agent://directory.example.com#",
		"agent://did:example:123456",
		"agent://[::1]:9000",
		"agent://token@directory.example.com",
	}
	for _, in := range inputs {
		u, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		got := Serialize(u)
		if got != in {
			t.Errorf("Serialize(Parse(%q)) = %q, want %q", in, got, in)
		}
	}
}

func TestSerializeEncodesReservedCharacters(t *testing.T) {
	u := New("directory.example.com").
		WithPath([]string{"a/b"}).
		WithQueryParam("k", "v&w")

	got := Serialize(u)
	want := "agent://directory.example.com/a%2Fb?k=v%26w"
	if got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}

	back, err := Parse(got)
	if err != nil {
		t.Fatalf("Parse(%q): %v", got, err)
	}
	if len(back.PathSegments) != 1 || back.PathSegments[0] != "a/b" {
		t.Errorf("round trip PathSegments = %v, want [\"a/b\"]", back.PathSegments)
	}
}

func TestEqualIgnoresNonCanonicalDifferences(t *testing.T) {
	a, _ := Parse("AGENT://Directory.Example.com/")
	b, _ := Parse("agent://directory.example.com")
	if !Equal(a, b) {
		t.Errorf("Equal(%q, %q) = false, want true", Serialize(a), Serialize(b))
	}
}
