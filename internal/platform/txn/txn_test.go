package txn

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalRunner_NestedCallsJoin(t *testing.T) {
	runner := NewLocalRunner()
	calls := 0

	err := runner.RunInTx(context.Background(), func(ctx context.Context) error {
		require.True(t, InTx(ctx))
		return runner.RunInTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestLocalRunner_SerializesUnits(t *testing.T) {
	runner := NewLocalRunner()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = runner.RunInTx(context.Background(), func(context.Context) error {
				current := counter
				counter = current + 1
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}

func TestLocalRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLocalRunner().RunInTx(ctx, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocalRunner_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := NewLocalRunner().RunInTx(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
}
