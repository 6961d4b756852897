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

// Package grpcbind implements a fourth transport binding (B4, beyond the
// three named in the base contract) over a plain gRPC connection: requests
// and responses are google.protobuf.Struct values sent to a fixed generic
// method path, rather than a generated request/response message.
package grpcbind

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/agenturi/core/problem"
	"github.com/agenturi/core/transport"
)

const (
	invokeMethod       = "/agent.invoke.v1.Invoker/Invoke"
	invokeStreamMethod = "/agent.invoke.v1.Invoker/InvokeStream"
)

var invokeStreamDesc = &grpc.StreamDesc{StreamName: "InvokeStream", ServerStreams: true}

// Binding implements transport.Binding for B4, holding one *grpc.ClientConn
// per endpoint.
type Binding struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
	tag   string
	opts  []grpc.DialOption
}

// New builds a Binding reporting tag (typically "grpc") as its protocol
// tag. opts are passed to grpc.NewClient for every connection it opens.
func New(tag string, opts ...grpc.DialOption) *Binding {
	return &Binding{conns: make(map[string]*grpc.ClientConn), tag: tag, opts: opts}
}

func (b *Binding) ProtocolTag() string { return b.tag }

func (b *Binding) connFor(endpoint string) (*grpc.ClientConn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.conns[endpoint]; ok {
		return c, nil
	}
	c, err := grpc.NewClient(endpoint, b.opts...)
	if err != nil {
		return nil, err
	}
	b.conns[endpoint] = c
	return c, nil
}

// buildRequestStruct marshals a capability call into the generic wire
// envelope: {"capability": ..., "params": ...}.
func buildRequestStruct(capability string, params any) (*structpb.Struct, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var paramsGeneric any
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &paramsGeneric); err != nil {
			return nil, err
		}
	}
	return structpb.NewStruct(map[string]any{
		"capability": capability,
		"params":     paramsGeneric,
	})
}

// Invoke marshals req into a Struct, invokes the fixed method path, and
// unmarshals the reply Struct back into a Response body.
func (b *Binding) Invoke(ctx context.Context, req transport.Request) (transport.Response, error) {
	conn, err := b.connFor(req.Endpoint)
	if err != nil {
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
		).WithCause(err)
	}

	reqStruct, err := buildRequestStruct(req.Capability, req.Params)
	if err != nil {
		return transport.Response{}, transport.NewInvocationError(problem.New(problem.CodeInvalidInput, err.Error()))
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	if len(req.Headers) > 0 {
		ctx = metadata.NewOutgoingContext(ctx, metadata.New(req.Headers))
	}

	reply := &structpb.Struct{}
	if err := conn.Invoke(ctx, invokeMethod, reqStruct, reply); err != nil {
		return transport.Response{}, translateError(err, req.Endpoint)
	}

	body, err := json.Marshal(reply.AsMap())
	if err != nil {
		return transport.Response{}, transport.NewInvocationError(problem.New(problem.CodeInternalError, err.Error()))
	}
	return transport.Response{Status: 200, Body: body}, nil
}

// Stream opens a server-streaming call at the fixed method path, sends one
// request Struct, and surfaces every reply Struct as a chunk.
func (b *Binding) Stream(ctx context.Context, req transport.Request) iter.Seq2[transport.Chunk, error] {
	return func(yield func(transport.Chunk, error) bool) {
		conn, err := b.connFor(req.Endpoint)
		if err != nil {
			yield(transport.Chunk{}, transport.NewInvocationError(
				problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
			).WithCause(err))
			return
		}

		reqStruct, err := buildRequestStruct(req.Capability, req.Params)
		if err != nil {
			yield(transport.Chunk{}, transport.NewInvocationError(problem.New(problem.CodeInvalidInput, err.Error())))
			return
		}

		if len(req.Headers) > 0 {
			ctx = metadata.NewOutgoingContext(ctx, metadata.New(req.Headers))
		}

		stream, err := conn.NewStream(ctx, invokeStreamDesc, invokeStreamMethod)
		if err != nil {
			yield(transport.Chunk{}, translateError(err, req.Endpoint))
			return
		}
		if err := stream.SendMsg(reqStruct); err != nil {
			yield(transport.Chunk{}, translateError(err, req.Endpoint))
			return
		}
		if err := stream.CloseSend(); err != nil {
			yield(transport.Chunk{}, translateError(err, req.Endpoint))
			return
		}

		for {
			chunk := &structpb.Struct{}
			err := stream.RecvMsg(chunk)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(transport.Chunk{}, translateError(err, req.Endpoint))
				return
			}

			body, err := json.Marshal(chunk.AsMap())
			if err != nil {
				yield(transport.Chunk{}, transport.NewInvocationError(problem.New(problem.CodeInternalError, err.Error())))
				return
			}
			if !yield(transport.Chunk{Value: body}, nil) {
				return
			}
		}
	}
}

// Close closes every connection this Binding has opened.
func (b *Binding) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for endpoint, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(b.conns, endpoint)
	}
	return firstErr
}

// translateError converts a gRPC status error into an
// *transport.InvocationError, modeled on the reverse direction of a
// status-code-to-error-category switch.
func translateError(err error, origin string) *transport.InvocationError {
	st, ok := status.FromError(err)
	if !ok {
		return transport.NewInvocationError(
			problem.New(problem.CodeNetworkError, err.Error()).WithInstance(origin),
		).WithCause(err)
	}

	var code problem.Code
	switch st.Code() {
	case codes.NotFound:
		code = problem.CodeCapabilityNotFound
	case codes.InvalidArgument:
		code = problem.CodeInvalidInput
	case codes.Unauthenticated:
		code = problem.CodeAuthenticationFailed
	case codes.PermissionDenied:
		code = problem.CodePermissionDenied
	case codes.DeadlineExceeded:
		code = problem.CodeTimeoutError
	case codes.Unavailable:
		code = problem.CodeNetworkError
	case codes.ResourceExhausted:
		code = problem.CodeRateLimited
	case codes.Unimplemented:
		code = problem.CodeUnknownTransport
	default:
		code = problem.CodeUpstreamError
	}

	detail := problem.New(code, st.Message()).WithInstance(origin).WithExtension("grpc_code", st.Code().String())
	return transport.NewInvocationError(detail).WithCause(err)
}
