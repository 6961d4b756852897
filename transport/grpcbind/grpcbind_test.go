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

package grpcbind

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/agenturi/core/transport"
)

// fakeInvoker implements the two fixed methods the binding calls, without
// any generated stub: it decodes/encodes google.protobuf.Struct directly.
type fakeInvoker struct {
	invoke func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	stream func(req *structpb.Struct, send func(*structpb.Struct) error) error
}

func invokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := &structpb.Struct{}
	if err := dec(in); err != nil {
		return nil, err
	}
	f := srv.(*fakeInvoker)
	if interceptor == nil {
		return f.invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: invokeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return f.invoke(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func invokeStreamHandler(srv any, stream grpc.ServerStream) error {
	in := &structpb.Struct{}
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	f := srv.(*fakeInvoker)
	return f.stream(in, func(chunk *structpb.Struct) error {
		return stream.SendMsg(chunk)
	})
}

var testServiceDesc = grpc.ServiceDesc{
	ServiceName: "agent.invoke.v1.Invoker",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "InvokeStream", Handler: invokeStreamHandler, ServerStreams: true},
	},
}

func newTestServer(t *testing.T, f *fakeInvoker) (*grpc.ClientConn, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer()
	server.RegisterService(&testServiceDesc, f)
	go server.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Stop()
	}
}

func TestInvokeReturnsResult(t *testing.T) {
	f := &fakeInvoker{
		invoke: func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			if req.AsMap()["capability"] != "wave" {
				t.Errorf("capability = %v, want wave", req.AsMap()["capability"])
			}
			return structpb.NewStruct(map[string]any{"ok": true})
		},
	}
	conn, cleanup := newTestServer(t, f)
	defer cleanup()

	b := New("grpc")
	b.conns["stub"] = conn
	defer b.Close()

	resp, err := b.Invoke(context.Background(), transport.Request{Endpoint: "stub", Capability: "wave"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %s, want {\"ok\":true}", resp.Body)
	}
}

func TestInvokeTranslatesGRPCError(t *testing.T) {
	f := &fakeInvoker{
		invoke: func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return nil, status.Error(codes.NotFound, "no such capability")
		},
	}
	conn, cleanup := newTestServer(t, f)
	defer cleanup()

	b := New("grpc")
	b.conns["stub"] = conn
	defer b.Close()

	_, err := b.Invoke(context.Background(), transport.Request{Endpoint: "stub", Capability: "missing"})
	invErr, ok := err.(*transport.InvocationError)
	if !ok {
		t.Fatalf("error type = %T, want *transport.InvocationError", err)
	}
	if invErr.Detail.Status != 404 {
		t.Errorf("Detail.Status = %d, want 404", invErr.Detail.Status)
	}
}

func TestStreamSurfacesChunks(t *testing.T) {
	f := &fakeInvoker{
		stream: func(req *structpb.Struct, send func(*structpb.Struct) error) error {
			for i := 0; i < 3; i++ {
				chunk, _ := structpb.NewStruct(map[string]any{"i": float64(i)})
				if err := send(chunk); err != nil {
					return err
				}
			}
			return nil
		},
	}
	conn, cleanup := newTestServer(t, f)
	defer cleanup()

	b := New("grpc")
	b.conns["stub"] = conn
	defer b.Close()

	count := 0
	for chunk, err := range b.Stream(context.Background(), transport.Request{Endpoint: "stub", Capability: "generate"}) {
		if err != nil {
			t.Fatalf("Stream: %v", err)
		}
		if len(chunk.Value) == 0 {
			t.Error("empty chunk value")
		}
		count++
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestProtocolTag(t *testing.T) {
	b := New("grpc")
	if b.ProtocolTag() != "grpc" {
		t.Errorf("ProtocolTag() = %q, want grpc", b.ProtocolTag())
	}
}
