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

package capability

import (
	"context"
	"iter"
	"testing"

	"github.com/agenturi/core/transport"
)

func TestDispatchNotFound(t *testing.T) {
	d := NewDispatcher(NewRegistry(), nil, nil)
	_, err := d.Dispatch(context.Background(), "missing", Request{})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
}

func TestDispatchValidatesInputSchema(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Record{
		Name:        "greet",
		InputSchema: []byte(`{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`),
		Handle: func(ctx context.Context, req Request) (Response, error) {
			return Response{Result: "ok"}, nil
		},
	})
	d := NewDispatcher(reg, nil, nil)

	_, err := d.Dispatch(context.Background(), "greet", Request{Params: map[string]any{}})
	if _, ok := err.(*InputValidationError); !ok {
		t.Fatalf("error type = %T, want *InputValidationError", err)
	}

	out, err := d.Dispatch(context.Background(), "greet", Request{Params: map[string]any{"name": "ada"}})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if out.Response.Result != "ok" {
		t.Errorf("Result = %v, want ok", out.Response.Result)
	}
}

func TestDispatchAppliesAuthPolicyOnlyWhenRequired(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Record{
		Name:         "public",
		RequiresAuth: false,
		Handle: func(ctx context.Context, req Request) (Response, error) {
			return Response{Result: "public-ok"}, nil
		},
	})
	reg.Register(Record{
		Name:         "secret",
		RequiresAuth: true,
		Handle: func(ctx context.Context, req Request) (Response, error) {
			return Response{Result: "secret-ok"}, nil
		},
	})
	d := NewDispatcher(reg, nil, nil)

	if _, err := d.Dispatch(context.Background(), "public", Request{}); err != nil {
		t.Fatalf("public Dispatch: %v", err)
	}

	_, err := d.Dispatch(context.Background(), "secret", Request{})
	if _, ok := err.(*AuthorizationError); !ok {
		t.Fatalf("error type = %T, want *AuthorizationError", err)
	}

	out, err := d.Dispatch(context.Background(), "secret", Request{AuthContext: "token"})
	if err != nil {
		t.Fatalf("authorized Dispatch: %v", err)
	}
	if out.Response.Result != "secret-ok" {
		t.Errorf("Result = %v, want secret-ok", out.Response.Result)
	}
}

func TestDispatchCarriesSessionContextAcrossCalls(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Record{
		Name:          "counter",
		MemoryEnabled: true,
		Handle: func(ctx context.Context, req Request) (Response, error) {
			count := 0
			if req.SessionContext != nil {
				count = req.SessionContext.(int)
			}
			count++
			return Response{Result: count, SessionContext: count}, nil
		},
	})
	d := NewDispatcher(reg, nil, nil)

	req := Request{Headers: map[string]string{"X-Session-ID": "sess-1"}}
	out1, err := d.Dispatch(context.Background(), "counter", req)
	if err != nil {
		t.Fatalf("Dispatch 1: %v", err)
	}
	if out1.Response.Result != 1 {
		t.Errorf("Result 1 = %v, want 1", out1.Response.Result)
	}

	out2, err := d.Dispatch(context.Background(), "counter", req)
	if err != nil {
		t.Fatalf("Dispatch 2: %v", err)
	}
	if out2.Response.Result != 2 {
		t.Errorf("Result 2 = %v, want 2", out2.Response.Result)
	}
}

func TestDispatchExtractsSessionIDFromParams(t *testing.T) {
	reg := NewRegistry()
	var seen string
	reg.Register(Record{
		Name:          "note",
		MemoryEnabled: true,
		Handle: func(ctx context.Context, req Request) (Response, error) {
			seen = req.SessionID
			return Response{}, nil
		},
	})
	d := NewDispatcher(reg, nil, nil)

	_, err := d.Dispatch(context.Background(), "note", Request{Params: map[string]any{"session_id": "from-params"}})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if seen != "from-params" {
		t.Errorf("SessionID = %q, want from-params", seen)
	}
}

func TestDispatchStreamingReturnsAdapter(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Record{
		Name:      "generate",
		Streaming: true,
		HandleStream: func(ctx context.Context, req Request) iter.Seq2[transport.Chunk, error] {
			return func(yield func(transport.Chunk, error) bool) {
				yield(transport.Chunk{Value: []byte("a")}, nil)
				yield(transport.Chunk{Value: []byte("b")}, nil)
			}
		},
	})
	d := NewDispatcher(reg, nil, nil)

	out, err := d.Dispatch(context.Background(), "generate", Request{})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !out.Streaming || out.Stream == nil {
		t.Fatal("expected a streaming outcome")
	}

	var got []byte
	for chunk, err := range out.Stream {
		if err != nil {
			t.Fatalf("stream: %v", err)
		}
		got = append(got, chunk.Value...)
	}
	if string(got) != "ab" {
		t.Errorf("got = %q, want ab", got)
	}
}

func TestDispatchStreamingWithoutHandlerIsUnsupported(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Record{Name: "generate", Streaming: true})
	d := NewDispatcher(reg, nil, nil)

	_, err := d.Dispatch(context.Background(), "generate", Request{})
	if _, ok := err.(*UnsupportedError); !ok {
		t.Fatalf("error type = %T, want *UnsupportedError", err)
	}
}
