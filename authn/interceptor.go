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

package authn

import (
	"context"

	"github.com/agenturi/core/descriptor"
	"github.com/agenturi/core/transport"
)

type sessionKey struct{}

// WithSessionID attaches a SessionID to ctx for Interceptor to read.
func WithSessionID(ctx context.Context, sid SessionID) context.Context {
	return context.WithValue(ctx, sessionKey{}, sid)
}

// SessionIDFrom retrieves a SessionID previously attached with
// WithSessionID.
func SessionIDFrom(ctx context.Context) (SessionID, bool) {
	sid, ok := ctx.Value(sessionKey{}).(SessionID)
	return sid, ok
}

// Interceptor implements transport.CallInterceptor. It resolves a
// credential for the session attached to the context and the configured
// scheme, and injects it into Request.AuthContext.
type Interceptor struct {
	transport.PassthroughInterceptor
	Provider CredentialProvider
	Scheme   descriptor.AuthenticationScheme
}

func (i *Interceptor) Before(ctx context.Context, req *transport.Request) (context.Context, error) {
	if i.Scheme == descriptor.AuthenticationSchemeNone || i.Provider == nil {
		return ctx, nil
	}

	sid, _ := SessionIDFrom(ctx)
	cred, err := i.Provider.Get(ctx, sid, i.Scheme)
	if err != nil {
		if err == ErrCredentialNotFound {
			return ctx, nil
		}
		return ctx, err
	}

	req.AuthContext = cred
	return ctx, nil
}
