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

package localbind

import (
	"context"
	"iter"
	"testing"

	"github.com/agenturi/core/transport"
)

func TestInvokeCallsRegisteredHandler(t *testing.T) {
	b := New("local")
	b.RegisterHandler("greeter", Registration{
		Invoke: func(ctx context.Context, req transport.Request) (transport.Response, error) {
			return transport.Response{Status: 200, Body: []byte("hello " + req.Capability)}, nil
		},
	})

	resp, err := b.Invoke(context.Background(), transport.Request{Endpoint: "greeter", Capability: "wave"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(resp.Body) != "hello wave" {
		t.Errorf("Body = %q, want %q", resp.Body, "hello wave")
	}
}

func TestInvokeUnknownAgent(t *testing.T) {
	b := New("local")
	_, err := b.Invoke(context.Background(), transport.Request{Endpoint: "nope"})
	if err == nil {
		t.Fatal("Invoke: expected error")
	}
	if _, ok := err.(*transport.InvocationError); !ok {
		t.Errorf("error type = %T, want *transport.InvocationError", err)
	}
}

func TestStreamDelegatesToStreamHandler(t *testing.T) {
	b := New("local")
	b.RegisterHandler("counter", Registration{
		Stream: func(ctx context.Context, req transport.Request) iter.Seq2[transport.Chunk, error] {
			return func(yield func(transport.Chunk, error) bool) {
				for i := 0; i < 3; i++ {
					if !yield(transport.Chunk{Value: []byte{byte('0' + i)}}, nil) {
						return
					}
				}
			}
		},
	})

	var out []byte
	for chunk, err := range b.Stream(context.Background(), transport.Request{Endpoint: "counter"}) {
		if err != nil {
			t.Fatalf("Stream: %v", err)
		}
		out = append(out, chunk.Value...)
	}
	if string(out) != "012" {
		t.Errorf("out = %q, want %q", out, "012")
	}
}

func TestUnregisterRemovesHandler(t *testing.T) {
	b := New("local")
	b.RegisterHandler("temp", Registration{
		Invoke: func(ctx context.Context, req transport.Request) (transport.Response, error) {
			return transport.Response{}, nil
		},
	})
	b.Unregister("temp")

	_, err := b.Invoke(context.Background(), transport.Request{Endpoint: "temp"})
	if err == nil {
		t.Fatal("Invoke: expected error after Unregister")
	}
}
