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

package wsbind

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agenturi/core/config"
	"github.com/agenturi/core/transport"
)

var upgrader = websocket.Upgrader{}

func newTestServer(t *testing.T, handle func(conn *websocket.Conn, in frame)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var f frame
			if err := json.Unmarshal(data, &f); err != nil {
				continue
			}
			handle(conn, f)
		}
	}))
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func writeFrame(t *testing.T, conn *websocket.Conn, f frame) {
	t.Helper()
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Errorf("write frame: %v", err)
	}
}

func TestInvokeReturnsResult(t *testing.T) {
	server := newTestServer(t, func(conn *websocket.Conn, in frame) {
		if in.Type == "invoke" {
			writeFrame(t, conn, frame{Type: "result", ID: in.ID, Value: json.RawMessage(`{"ok":true}`)})
		}
	})
	defer server.Close()

	b := New("wss", config.New())
	defer b.Close()

	resp, err := b.Invoke(context.Background(), transport.Request{Endpoint: wsURL(server.URL), Capability: "echo"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %s, want {\"ok\":true}", resp.Body)
	}
}

func TestInvokeReturnsError(t *testing.T) {
	server := newTestServer(t, func(conn *websocket.Conn, in frame) {
		if in.Type == "invoke" {
			writeFrame(t, conn, frame{Type: "error", ID: in.ID})
		}
	})
	defer server.Close()

	b := New("wss", config.New())
	defer b.Close()

	_, err := b.Invoke(context.Background(), transport.Request{Endpoint: wsURL(server.URL), Capability: "boom"})
	if err == nil {
		t.Fatal("Invoke: expected error")
	}
	if _, ok := err.(*transport.InvocationError); !ok {
		t.Errorf("error type = %T, want *transport.InvocationError", err)
	}
}

func TestStreamSurfacesChunksThenResult(t *testing.T) {
	server := newTestServer(t, func(conn *websocket.Conn, in frame) {
		if in.Type != "invoke" {
			return
		}
		writeFrame(t, conn, frame{Type: "chunk", ID: in.ID, Value: json.RawMessage(`"a"`)})
		writeFrame(t, conn, frame{Type: "chunk", ID: in.ID, Value: json.RawMessage(`"b"`)})
		writeFrame(t, conn, frame{Type: "result", ID: in.ID})
	})
	defer server.Close()

	b := New("wss", config.New())
	defer b.Close()

	var values []string
	for chunk, err := range b.Stream(context.Background(), transport.Request{Endpoint: wsURL(server.URL), Capability: "generate-text"}) {
		if err != nil {
			t.Fatalf("Stream: %v", err)
		}
		values = append(values, string(chunk.Value))
	}
	if strings.Join(values, ",") != `"a","b"` {
		t.Errorf("values = %v, want [\"a\" \"b\"]", values)
	}
}

func TestStreamCancelOnEarlyBreak(t *testing.T) {
	cancelSeen := make(chan struct{}, 1)
	server := newTestServer(t, func(conn *websocket.Conn, in frame) {
		switch in.Type {
		case "invoke":
			for i := 0; i < 50; i++ {
				writeFrame(t, conn, frame{Type: "chunk", ID: in.ID, Value: json.RawMessage(`"x"`)})
			}
		case "cancel":
			select {
			case cancelSeen <- struct{}{}:
			default:
			}
		}
	})
	defer server.Close()

	b := New("wss", config.New())
	defer b.Close()

	count := 0
	for _, err := range b.Stream(context.Background(), transport.Request{Endpoint: wsURL(server.URL), Capability: "generate-text"}) {
		if err != nil {
			t.Fatalf("Stream: %v", err)
		}
		count++
		if count == 1 {
			break
		}
	}

	select {
	case <-cancelSeen:
	case <-time.After(2 * time.Second):
		t.Error("server never received a cancel frame")
	}
}

func TestProtocolTag(t *testing.T) {
	b := New("wss", config.New())
	defer b.Close()
	if b.ProtocolTag() != "wss" {
		t.Errorf("ProtocolTag() = %q, want wss", b.ProtocolTag())
	}
}
