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

package transport

import "context"

// CallInterceptor can be attached to a caller-side wrapper around a
// Binding for cross-cutting concerns (auth injection, logging, tracing)
// without touching the binding itself.
//
// If multiple interceptors are attached, Before runs in attachment order
// and After runs in reverse.
type CallInterceptor interface {
	// Before observes or rewrites req before it is sent. Returning an error
	// aborts the call before any I/O happens.
	Before(ctx context.Context, req *Request) (context.Context, error)

	// After observes resp once the call completes (successfully or not).
	After(ctx context.Context, resp *Response) error
}

// PassthroughInterceptor is a no-op CallInterceptor meant to be embedded by
// implementers that only care about one of the two methods.
type PassthroughInterceptor struct{}

func (PassthroughInterceptor) Before(ctx context.Context, req *Request) (context.Context, error) {
	return ctx, nil
}

func (PassthroughInterceptor) After(ctx context.Context, resp *Response) error { return nil }

// RunBefore applies interceptors in attachment order, stopping at the
// first error.
func RunBefore(ctx context.Context, req *Request, interceptors []CallInterceptor) (context.Context, error) {
	for _, ic := range interceptors {
		var err error
		ctx, err = ic.Before(ctx, req)
		if err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

// RunAfter applies interceptors in reverse attachment order, stopping at
// the first error.
func RunAfter(ctx context.Context, resp *Response, interceptors []CallInterceptor) error {
	for i := len(interceptors) - 1; i >= 0; i-- {
		if err := interceptors[i].After(ctx, resp); err != nil {
			return err
		}
	}
	return nil
}
