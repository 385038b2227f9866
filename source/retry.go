// Copyright 2025 Poiesic Systems
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


package source

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// retryPolicy describes how a backend call is repeated. The n-th pause is
// delay * 2^(n-1). A nil retryable treats every error as transient.
type retryPolicy struct {
	attempts  int
	delay     time.Duration
	retryable func(error) bool
}

// statusPolicy retries a status poll unless the backend reports that the
// search has no result ready.
func statusPolicy(attempts int, delay time.Duration) retryPolicy {
	return retryPolicy{
		attempts: attempts,
		delay:    delay,
		retryable: func(err error) bool {
			return !isNotReady(err)
		},
	}
}

func isNotReady(err error) bool {
	return err != nil && strings.Contains(err.Error(), notReadyMessage)
}

// retry runs call until it succeeds, the policy gives up on its error, the
// attempts run out or ctx ends. The last call error is returned.
func retry(ctx context.Context, logger *slog.Logger, policy retryPolicy, call func() error) error {
	if policy.attempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	pause := policy.delay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := call()
		switch {
		case err == nil:
			if attempt > 1 {
				logger.Debug("backend call succeeded after retry", "attempt", attempt)
			}
			return nil
		case policy.retryable != nil && !policy.retryable(err):
			return err
		case attempt == policy.attempts:
			logger.Warn("backend call failed, giving up", "attempts", attempt, "err", err)
			return err
		}
		logger.Info("backend call failed, retrying", "attempt", attempt, "of", policy.attempts, "pause", pause, "err", err)

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		pause *= 2
	}
}
