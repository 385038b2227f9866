package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	errTransient := errors.New("connection reset")
	errNotReady := fmt.Errorf("status 500: %s", notReadyMessage)

	tests := []struct {
		name         string
		policy       retryPolicy
		errs         []error
		wantErr      error
		wantAttempts int
	}{
		{name: "first try", policy: retryPolicy{attempts: 3}, wantAttempts: 1},
		{name: "succeeds on last attempt", policy: retryPolicy{attempts: 3}, errs: []error{errTransient, errTransient}, wantAttempts: 3},
		{name: "exhausts attempts", policy: retryPolicy{attempts: 3}, errs: []error{errTransient, errTransient, errTransient, errTransient}, wantErr: errTransient, wantAttempts: 3},
		{name: "zero attempts", policy: retryPolicy{}, wantErr: ErrInvalidMaxAttempts},
		{name: "negative attempts", policy: retryPolicy{attempts: -2}, wantErr: ErrInvalidMaxAttempts},
		{name: "status poll not ready", policy: statusPolicy(3, 0), errs: []error{errNotReady, errTransient}, wantErr: errNotReady, wantAttempts: 1},
		{name: "status poll transient", policy: statusPolicy(3, 0), errs: []error{errTransient}, wantAttempts: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.policy.delay = time.Millisecond
			attempts := 0
			err := retry(context.Background(), slog.Default(), tt.policy, func() error {
				attempts++
				if attempts <= len(tt.errs) {
					return tt.errs[attempts-1]
				}
				return nil
			})

			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := retry(ctx, slog.Default(), retryPolicy{attempts: 5, delay: 50 * time.Millisecond}, func() error {
		attempts++
		cancel()
		return errors.New("status poll failed")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetry_DelayDoubles(t *testing.T) {
	var stamps []time.Time

	err := retry(context.Background(), slog.Default(), retryPolicy{attempts: 3, delay: 10 * time.Millisecond}, func() error {
		stamps = append(stamps, time.Now())
		if len(stamps) < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 10*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 20*time.Millisecond)
}
