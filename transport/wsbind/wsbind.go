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

// Package wsbind implements the full-duplex streaming transport binding
// (B2) over WebSocket: one connection per endpoint, multiplexed by frame
// id, with an explicit INIT/CONNECTING/OPEN/CLOSING/CLOSED state machine.
package wsbind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/agenturi/core/config"
	"github.com/agenturi/core/problem"
	"github.com/agenturi/core/transport"
)

type connState int32

const (
	stateInit connState = iota
	stateConnecting
	stateOpen
	stateClosing
	stateClosed
)

// frame is the JSON wire shape exchanged over a B2 connection.
type frame struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Capability string          `json:"capability,omitempty"`
	Params     any             `json:"params,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
	Problem    *problem.Detail `json:"problem,omitempty"`
}

// wsConn owns one websocket connection: a read loop that demultiplexes
// incoming frames to per-id waiter channels, and a mutex-guarded state
// enum for the connection lifecycle.
type wsConn struct {
	mu      sync.Mutex
	state   connState
	conn    *websocket.Conn
	waiters map[string]chan frame
}

func dial(ctx context.Context, endpoint string, headers http.Header) (*wsConn, error) {
	c := &wsConn{state: stateConnecting, waiters: make(map[string]chan frame)}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		c.setState(stateClosed)
		return nil, err
	}
	c.conn = conn
	c.setState(stateOpen)
	go c.readLoop()
	return c, nil
}

func (c *wsConn) setState(s connState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *wsConn) getState() connState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *wsConn) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.state = stateClosed
			for id, ch := range c.waiters {
				close(ch)
				delete(c.waiters, id)
			}
			c.mu.Unlock()
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.waiters[f.ID]
		c.mu.Unlock()
		if ok {
			select {
			case ch <- f:
			default:
			}
		}
	}
}

func (c *wsConn) register(id string) chan frame {
	ch := make(chan frame, 8)
	c.mu.Lock()
	c.waiters[id] = ch
	c.mu.Unlock()
	return ch
}

func (c *wsConn) unregister(id string) {
	c.mu.Lock()
	delete(c.waiters, id)
	c.mu.Unlock()
}

func (c *wsConn) send(f frame) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("wsbind: connection not open")
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) close() {
	c.mu.Lock()
	if c.state == stateClosed || c.state == stateClosing {
		c.mu.Unlock()
		return
	}
	c.state = stateClosing
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
	c.setState(stateClosed)
}

// Binding implements transport.Binding for B2, holding one wsConn per
// endpoint and reusing it across calls.
type Binding struct {
	mu             sync.Mutex
	conns          map[string]*wsConn
	tag            string
	defaultTimeout time.Duration
}

// New builds a Binding reporting tag (typically "wss" or "ws") as its
// protocol tag.
func New(tag string, cfg config.Config) *Binding {
	return &Binding{conns: make(map[string]*wsConn), tag: tag, defaultTimeout: cfg.Timeout}
}

func (b *Binding) ProtocolTag() string { return b.tag }

func (b *Binding) connFor(ctx context.Context, endpoint string) (*wsConn, error) {
	b.mu.Lock()
	if c, ok := b.conns[endpoint]; ok && c.getState() != stateClosed {
		b.mu.Unlock()
		return c, nil
	}
	b.mu.Unlock()

	c, err := dial(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.conns[endpoint] = c
	b.mu.Unlock()
	return c, nil
}

func (b *Binding) effectiveTimeout(requested time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	return b.defaultTimeout
}

// Invoke sends {type: "invoke", ...} and waits for the first result/error
// frame with the matching id.
func (b *Binding) Invoke(ctx context.Context, req transport.Request) (transport.Response, error) {
	c, err := b.connFor(ctx, req.Endpoint)
	if err != nil {
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
		).WithCause(err)
	}

	id := uuid.NewString()
	ch := c.register(id)
	defer c.unregister(id)

	if err := c.send(frame{Type: "invoke", ID: id, Capability: req.Capability, Params: req.Params}); err != nil {
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
		).WithCause(err)
	}

	waitCtx := ctx
	if timeout := b.effectiveTimeout(req.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case f, ok := <-ch:
		if !ok {
			return transport.Response{}, transport.NewInvocationError(
				problem.New(problem.CodeNetworkError, "connection closed while waiting for response"),
			)
		}
		return frameToResponse(f)
	case <-waitCtx.Done():
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeTimeoutError, "timed out waiting for response"),
		)
	}
}

func frameToResponse(f frame) (transport.Response, error) {
	switch f.Type {
	case "result":
		return transport.Response{Status: 200, Body: []byte(f.Value)}, nil
	case "error":
		detail := problem.New(problem.CodeUpstreamError, "invocation failed")
		if f.Problem != nil {
			detail = *f.Problem
		}
		return transport.Response{}, transport.NewInvocationError(detail)
	default:
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeUpstreamError, fmt.Sprintf("unexpected frame type %q", f.Type)),
		)
	}
}

// Stream sends the same invoke frame as Invoke and surfaces every
// chunk/result/error frame with the matching id. Dropping the sequence
// before a terminal frame arrives sends a {type: "cancel", id} frame.
func (b *Binding) Stream(ctx context.Context, req transport.Request) iter.Seq2[transport.Chunk, error] {
	return func(yield func(transport.Chunk, error) bool) {
		c, err := b.connFor(ctx, req.Endpoint)
		if err != nil {
			yield(transport.Chunk{}, transport.NewInvocationError(
				problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
			).WithCause(err))
			return
		}

		id := uuid.NewString()
		ch := c.register(id)
		terminated := false
		defer func() {
			c.unregister(id)
			if !terminated {
				c.send(frame{Type: "cancel", ID: id})
			}
		}()

		if err := c.send(frame{Type: "invoke", ID: id, Capability: req.Capability, Params: req.Params}); err != nil {
			yield(transport.Chunk{}, transport.NewInvocationError(
				problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
			).WithCause(err))
			return
		}

		for {
			select {
			case f, ok := <-ch:
				if !ok {
					yield(transport.Chunk{}, transport.NewInvocationError(
						problem.New(problem.CodeNetworkError, "connection closed mid-stream"),
					))
					return
				}
				switch f.Type {
				case "chunk":
					if !yield(transport.Chunk{Value: f.Value}, nil) {
						return
					}
				case "result":
					terminated = true
					if len(f.Value) > 0 {
						yield(transport.Chunk{Value: f.Value}, nil)
					}
					return
				case "error":
					terminated = true
					detail := problem.New(problem.CodeUpstreamError, "stream failed")
					if f.Problem != nil {
						detail = *f.Problem
					}
					yield(transport.Chunk{}, transport.NewInvocationError(detail))
					return
				}
			case <-ctx.Done():
				yield(transport.Chunk{}, ctx.Err())
				return
			}
		}
	}
}

// Close closes every connection this Binding has opened.
func (b *Binding) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.conns {
		c.close()
	}
	b.conns = make(map[string]*wsConn)
	return nil
}
