package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      20 * time.Millisecond,
	}
}

func fail() error    { return errors.New("downstream failure") }
func succeed() error { return nil }

func TestExecute_ClosedPassesThrough(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	assert.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_OpensAfterThreshold(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(ctx, fail))
	}
	assert.Equal(t, StateOpen, cb.State())

	// Rejected without executing.
	calls := 0
	err := cb.Execute(ctx, func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.Zero(t, calls)
}

func TestExecute_SuccessResetsFailureCount(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)
	cb.Execute(ctx, succeed)
	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)

	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_HalfOpenRecovery(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cb.Execute(ctx, fail)
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(25 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	assert.NoError(t, cb.Execute(ctx, succeed))
	assert.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_HalfOpenFailureReopens(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cb.Execute(ctx, fail)
	}
	time.Sleep(25 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	cb.Execute(ctx, fail)
	assert.Equal(t, StateOpen, cb.State())
}

func TestExecute_CancelledContext(t *testing.T) {
	cb := New(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := cb.Execute(ctx, func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestNew_SanitizesConfig(t *testing.T) {
	cb := New(Config{})
	assert.Equal(t, DefaultConfig().FailureThreshold, cb.cfg.FailureThreshold)
	assert.Equal(t, DefaultConfig().SuccessThreshold, cb.cfg.SuccessThreshold)
	assert.Equal(t, DefaultConfig().OpenTimeout, cb.cfg.OpenTimeout)
}

func TestOnStateChange_Notified(t *testing.T) {
	cb := New(testConfig())
	transitions := make(chan [2]State, 4)
	cb.OnStateChange(func(from, to State) {
		transitions <- [2]State{from, to}
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		cb.Execute(ctx, fail)
	}

	select {
	case tr := <-transitions:
		assert.Equal(t, StateClosed, tr[0])
		assert.Equal(t, StateOpen, tr[1])
	case <-time.After(time.Second):
		t.Fatal("no state change observed")
	}
}
