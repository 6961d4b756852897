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

// Package config holds the tunables shared by the resolver and the
// transport bindings, applied through a small Option interface in the
// same shape as the teacher's FactoryOption.
package config

import "time"

// Config collects every tunable named in the external-interfaces
// configuration table. Zero value is meaningless; use New to get one
// populated with defaults.
type Config struct {
	// Timeout is the overall deadline for a single call. Zero means no
	// deadline beyond the caller's own context.
	Timeout time.Duration

	// RetriesMax bounds B1 retry attempts on transient failures.
	RetriesMax int

	// CacheTTLDefault is used when a well-known fetch's response carries
	// no cache-control/expiry headers.
	CacheTTLDefault time.Duration

	// CacheMaxEntries bounds the resolver's LRU cache.
	CacheMaxEntries int

	// PoolPerOriginMax bounds B1's per-origin connection pool.
	PoolPerOriginMax int

	// IdleTimeout is B1's connection reaper deadline.
	IdleTimeout time.Duration

	// FollowRedirects controls redirect following for B1 invocations. It
	// does not apply to descriptor well-known fetches, which never follow
	// redirects regardless of this setting.
	FollowRedirects bool

	// StrictMode makes descriptor validation errors fatal; when false,
	// unknown fields are tolerated and only V1-V9 violations are fatal.
	StrictMode bool
}

const (
	defaultTimeout          = 30 * time.Second
	defaultRetriesMax       = 3
	defaultCacheTTL         = 300 * time.Second
	defaultCacheMaxEntries  = 1000
	defaultPoolPerOriginMax = 10
	defaultIdleTimeout      = 60 * time.Second
)

// Option configures a Config, mirroring the teacher's FactoryOption shape:
// a small interface instead of a bare function type, so option values can
// be inspected (e.g. WithDefaultsDisabled-style markers) if a future
// option needs to.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// New builds a Config with the documented defaults, applying opts on top.
func New(opts ...Option) Config {
	c := Config{
		Timeout:          defaultTimeout,
		RetriesMax:       defaultRetriesMax,
		CacheTTLDefault:  defaultCacheTTL,
		CacheMaxEntries:  defaultCacheMaxEntries,
		PoolPerOriginMax: defaultPoolPerOriginMax,
		IdleTimeout:      defaultIdleTimeout,
		FollowRedirects:  true,
		StrictMode:       false,
	}
	for _, o := range opts {
		o.apply(&c)
	}
	return c
}

func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.Timeout = d })
}

func WithRetriesMax(n int) Option {
	return optionFunc(func(c *Config) { c.RetriesMax = n })
}

func WithCacheTTLDefault(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.CacheTTLDefault = d })
}

func WithCacheMaxEntries(n int) Option {
	return optionFunc(func(c *Config) { c.CacheMaxEntries = n })
}

func WithPoolPerOriginMax(n int) Option {
	return optionFunc(func(c *Config) { c.PoolPerOriginMax = n })
}

func WithIdleTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.IdleTimeout = d })
}

func WithFollowRedirects(b bool) Option {
	return optionFunc(func(c *Config) { c.FollowRedirects = b })
}

func WithStrictMode(b bool) Option {
	return optionFunc(func(c *Config) { c.StrictMode = b })
}
