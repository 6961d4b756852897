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

// Package httpbind implements the request/response transport binding (B1)
// over HTTP-compatible protocols: pooled connections, GET/POST selection,
// SSE/ndjson streaming decode, and bounded retries for idempotent calls.
package httpbind

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agenturi/core/config"
	"github.com/agenturi/core/internal/wireutil"
	"github.com/agenturi/core/log"
	"github.com/agenturi/core/problem"
	"github.com/agenturi/core/transport"
)

const maxQueryParamsBytes = 2000

// Binding implements transport.Binding for HTTPS/HTTP request/response and
// server-push streaming (SSE, ndjson).
type Binding struct {
	tag          string
	client       *http.Client
	retriesMax   int
	interceptors []transport.CallInterceptor
}

// New builds a Binding from cfg. tag is the protocol tag it will report
// (typically "https" or "http") for registration under transport.Register.
func New(tag string, cfg config.Config, interceptors ...transport.CallInterceptor) *Binding {
	transportRT := &http.Transport{
		MaxIdleConnsPerHost: cfg.PoolPerOriginMax,
		IdleConnTimeout:     cfg.IdleTimeout,
	}
	client := &http.Client{
		Transport: transportRT,
		Timeout:   cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return &Binding{
		tag:          tag,
		client:       client,
		retriesMax:   cfg.RetriesMax,
		interceptors: interceptors,
	}
}

func (b *Binding) ProtocolTag() string { return b.tag }

// Close releases idle pooled connections.
func (b *Binding) Close() error {
	if rt, ok := b.client.Transport.(*http.Transport); ok {
		rt.CloseIdleConnections()
	}
	return nil
}

// Invoke performs a single request/response call.
func (b *Binding) Invoke(ctx context.Context, req transport.Request) (transport.Response, error) {
	ctx, err := transport.RunBefore(ctx, &req, b.interceptors)
	if err != nil {
		return transport.Response{}, err
	}

	httpReq, idempotent, err := b.buildRequest(ctx, req, "application/json")
	if err != nil {
		return transport.Response{}, err
	}

	resp, err := b.doWithRetries(httpReq, idempotent)
	if err != nil {
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
		).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transport.Response{}, transport.NewInvocationError(
			problem.New(problem.CodeNetworkError, "failed to read response body").WithInstance(req.Endpoint),
		).WithCause(err)
	}

	result := transport.Response{
		Status:  resp.StatusCode,
		Headers: flattenHeaders(resp.Header),
		Body:    body,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return transport.Response{}, invocationErrorFrom(resp, body)
	}

	if err := transport.RunAfter(ctx, &result, b.interceptors); err != nil {
		return transport.Response{}, err
	}
	return result, nil
}

// Stream performs a request whose response is decoded incrementally based
// on its content type.
func (b *Binding) Stream(ctx context.Context, req transport.Request) iter.Seq2[transport.Chunk, error] {
	return func(yield func(transport.Chunk, error) bool) {
		ctx, err := transport.RunBefore(ctx, &req, b.interceptors)
		if err != nil {
			yield(transport.Chunk{}, err)
			return
		}

		httpReq, _, err := b.buildRequest(ctx, req, "text/event-stream, application/x-ndjson;q=0.9, application/json;q=0.5")
		if err != nil {
			yield(transport.Chunk{}, err)
			return
		}

		resp, err := b.client.Do(httpReq)
		if err != nil {
			yield(transport.Chunk{}, transport.NewInvocationError(
				problem.New(problem.CodeNetworkError, err.Error()).WithInstance(req.Endpoint),
			).WithCause(err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			yield(transport.Chunk{}, invocationErrorFrom(resp, body))
			return
		}

		contentType := resp.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(contentType, "text/event-stream"):
			for data, err := range wireutil.ParseSSEStream(resp.Body) {
				if err != nil {
					yield(transport.Chunk{}, err)
					return
				}
				if !yield(transport.Chunk{Value: data}, nil) {
					return
				}
			}
		case strings.HasPrefix(contentType, "application/x-ndjson"):
			for data, err := range wireutil.ParseNDJSONStream(resp.Body) {
				if err != nil {
					yield(transport.Chunk{}, err)
					return
				}
				if !yield(transport.Chunk{Value: data}, nil) {
					return
				}
			}
		default:
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				yield(transport.Chunk{}, err)
				return
			}
			yield(transport.Chunk{Value: body}, nil)
		}
	}
}

// buildRequest constructs the *http.Request for req, choosing GET when
// params are absent or small enough to encode safely as a query string,
// POST otherwise. It reports whether the chosen method is idempotent
// (retry-eligible).
func (b *Binding) buildRequest(ctx context.Context, req transport.Request, accept string) (*http.Request, bool, error) {
	target := strings.TrimRight(req.Endpoint, "/") + "/" + req.Capability

	query, canQuery := encodeAsQuery(req.Params)
	useGET := req.Params == nil || (canQuery && len(query.Encode()) <= maxQueryParamsBytes)

	var httpReq *http.Request
	var err error
	if useGET {
		u := target
		if encoded := query.Encode(); encoded != "" {
			u += "?" + encoded
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	} else {
		body, marshalErr := json.Marshal(req.Params)
		if marshalErr != nil {
			return nil, false, fmt.Errorf("httpbind: marshal params: %w", marshalErr)
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, false, fmt.Errorf("httpbind: build request: %w", err)
	}

	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if cred := authHeaderValue(req.AuthContext); cred != "" {
		httpReq.Header.Set("Authorization", cred)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, useGET, nil
}

// doWithRetries retries idempotent (GET) requests up to retriesMax times on
// transient failures (connection errors, 502/503/504), backing off
// exponentially. Non-idempotent requests are attempted exactly once.
func (b *Binding) doWithRetries(req *http.Request, idempotent bool) (*http.Response, error) {
	attempts := 1
	if idempotent && b.retriesMax > 0 {
		attempts += b.retriesMax
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			log.Verbose(req.Context(), log.LevelDebug, "retrying request", "url", req.URL.String(), "attempt", attempt, "backoff", backoff)
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
			req = req.Clone(req.Context())
		}

		resp, err := b.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if isTransientStatus(resp.StatusCode) && attempt < attempts-1 {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	log.Error(req.Context(), "request failed after retries", lastErr, "url", req.URL.String(), "attempts", attempts)
	return nil, lastErr
}

func isTransientStatus(status int) bool {
	return status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout
}

// encodeAsQuery flattens a flat map of scalars into url.Values. Non-map or
// nested params report canEncode=false so the caller falls back to POST.
func encodeAsQuery(params any) (url.Values, bool) {
	values := url.Values{}
	if params == nil {
		return values, true
	}

	m, ok := params.(map[string]any)
	if !ok {
		return nil, false
	}
	for k, v := range m {
		switch t := v.(type) {
		case string:
			values.Set(k, t)
		case bool:
			values.Set(k, strconv.FormatBool(t))
		case float64:
			values.Set(k, strconv.FormatFloat(t, 'f', -1, 64))
		case int:
			values.Set(k, strconv.Itoa(t))
		default:
			return nil, false
		}
	}
	return values, true
}

func authHeaderValue(authContext any) string {
	switch v := authContext.(type) {
	case nil:
		return ""
	case string:
		if v == "" {
			return ""
		}
		return "Bearer " + v
	case fmt.Stringer:
		s := v.String()
		if s == "" {
			return ""
		}
		return "Bearer " + s
	default:
		return ""
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

// invocationErrorFrom builds an *transport.InvocationError from a non-2xx
// response, parsing application/problem+json when present and synthesizing
// a Detail from the status code otherwise.
func invocationErrorFrom(resp *http.Response, body []byte) *transport.InvocationError {
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/problem+json") {
		var detail problem.Detail
		if err := json.Unmarshal(body, &detail); err == nil {
			return transport.NewInvocationError(detail)
		}
	}

	code := problem.CodeUpstreamError
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		code = problem.CodeInvalidInput
	}
	detail := problem.New(code, fmt.Sprintf("upstream returned status %d", resp.StatusCode)).
		WithExtension("http_status", resp.StatusCode).
		WithExtension("body", string(body))
	return transport.NewInvocationError(detail)
}
