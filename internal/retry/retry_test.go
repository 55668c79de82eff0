package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTransient = errors.New("upstream timed out")
	errPermanent = errors.New("invalid credentials")
)

func testPolicy(maxAttempts uint) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
		Transient:       func(err error) bool { return errors.Is(err, errTransient) },
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	got, err := Do(context.Background(), testPolicy(3), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errTransient
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), testPolicy(3), func() (string, error) {
		attempts++
		return "", errTransient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts)
}

func TestDoPermanentErrorSingleAttempt(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), testPolicy(5), func() (string, error) {
		attempts++
		return "", errPermanent
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts, "permanent errors must not be retried")
}

func TestDoFirstAttemptSuccess(t *testing.T) {
	attempts := 0
	got, err := Do(context.Background(), testPolicy(3), func() (int, error) {
		attempts++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, attempts)
}

func TestDoNilTransientRetriesEverything(t *testing.T) {
	p := testPolicy(2)
	p.Transient = nil

	attempts := 0
	_, err := Do(context.Background(), p, func() (string, error) {
		attempts++
		return "", errPermanent
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := testPolicy(10)
	p.InitialInterval = time.Hour // force the wait to come from ctx

	attempts := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, func() (string, error) {
			attempts++
			return "", errTransient
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy(func(error) bool { return true })
	assert.Equal(t, uint(2), p.MaxAttempts)
	assert.Equal(t, 1*time.Second, p.InitialInterval)
	assert.Equal(t, 60*time.Second, p.MaxInterval)
	assert.NotNil(t, p.Transient)
}
