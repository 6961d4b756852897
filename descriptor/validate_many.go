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

package descriptor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// defaultValidateManyWorkers bounds concurrent schema validation so a large
// batch of descriptors doesn't spawn one goroutine per document.
const defaultValidateManyWorkers = 8

// ValidateMany validates every descriptor in ds concurrently, bounded by
// SetLimit, and returns one ValidationResult per input in the same order.
// A validation failure on one descriptor does not stop the others.
func ValidateMany(ctx context.Context, ds []AgentDescriptor) ([]ValidationResult, error) {
	results := make([]ValidationResult, len(ds))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(defaultValidateManyWorkers)

	for i, d := range ds {
		i, d := i, d
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = Validate(d)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
