package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("basic rate limiting", func(t *testing.T) {
		rl := newRateLimiter(10)
		defer rl.Close()
		ctx := context.Background()

		for i := 0; i < 10; i++ {
			require.NoError(t, rl.wait(ctx))
		}

		// 11th request has to wait for a refill
		start := time.Now()
		done := make(chan bool)
		go func() {
			assert.NoError(t, rl.wait(ctx))
			done <- true
		}()

		select {
		case <-done:
			assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		case <-time.After(10 * time.Second):
			t.Fatal("Rate limiter wait timed out")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		rl := newRateLimiter(1)
		defer rl.Close()

		require.NoError(t, rl.wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() {
			done <- rl.wait(ctx)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		err := <-done
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter canceled")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("tryAcquire", func(t *testing.T) {
		rl := newRateLimiter(5)
		defer rl.Close()

		for i := 0; i < 5; i++ {
			assert.True(t, rl.tryAcquire(), "attempt %d", i+1)
		}
		assert.False(t, rl.tryAcquire())
	})

	t.Run("default rate limit", func(t *testing.T) {
		rl := newRateLimiter(0)
		defer rl.Close()

		for i := 0; i < 15; i++ {
			require.True(t, rl.tryAcquire())
		}
		assert.False(t, rl.tryAcquire())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		rl := newRateLimiter(5)
		rl.Close()
		assert.NotPanics(t, rl.Close)
	})

	t.Run("concurrent access", func(t *testing.T) {
		rl := newRateLimiter(100)
		defer rl.Close()
		ctx := context.Background()

		var acquired int32
		var mu sync.Mutex
		var wg sync.WaitGroup

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					if err := rl.wait(ctx); err == nil {
						mu.Lock()
						acquired++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(100), acquired)
	})
}

type stubClient struct {
	calls int
	reply string
}

func (s *stubClient) Generate(_ context.Context, _ string, _ Image) (string, error) {
	s.calls++
	return s.reply, nil
}

func TestLimitedClient(t *testing.T) {
	stub := &stubClient{reply: `{"ok":true}`}
	client := &limitedClient{client: stub, limiter: newRateLimiter(1)}
	defer func() { _ = client.Close() }()

	out, err := client.Generate(context.Background(), "prompt", Image{})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	// Bucket is empty now; a canceled context must not reach the provider.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Generate(ctx, "prompt", Image{})
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}
