package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestSessions(t *testing.T) {
	t.Run("one store per profile", func(t *testing.T) {
		sessions := service.NewSessions()
		a, b := uuid.New(), uuid.New()

		first, created := sessions.Get(a)
		assert.True(t, created)
		again, created := sessions.Get(a)
		assert.False(t, created)
		other, _ := sessions.Get(b)

		assert.Same(t, first, again)
		assert.NotSame(t, first, other)
		assert.Equal(t, 2, sessions.Len())
	})

	t.Run("evicts idle sessions", func(t *testing.T) {
		// given
		clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		sessions := service.NewSessions()
		sessions.SetClock(func() time.Time { return clock })
		idle, active := uuid.New(), uuid.New()
		sessions.Get(idle)
		clock = clock.Add(20 * time.Minute)
		sessions.Get(active)
		clock = clock.Add(15 * time.Minute)

		// when
		evicted := sessions.EvictIdle(30 * time.Minute)

		// then
		assert.Equal(t, 1, evicted)
		assert.Equal(t, 1, sessions.Len())
		_, created := sessions.Get(idle)
		assert.True(t, created)
	})
}

type countingEvictor struct {
	calls int
	n     int
}

func (c *countingEvictor) EvictIdle(time.Duration) int {
	c.calls++
	return c.n
}

func TestSessionSweeper(t *testing.T) {
	t.Run("sweep sums every evictor", func(t *testing.T) {
		a, b := &countingEvictor{n: 2}, &countingEvictor{n: 1}
		sweeper := service.NewSessionSweeper(time.Minute, time.Hour, a, b)

		assert.Equal(t, 3, sweeper.Sweep())
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("stop ends the loop", func(t *testing.T) {
		sweeper := service.NewSessionSweeper(time.Minute, time.Millisecond, &countingEvictor{})
		done := make(chan struct{})
		go func() {
			sweeper.Start(context.Background())
			close(done)
		}()

		sweeper.Stop()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}
	})

	t.Run("stop twice is safe", func(t *testing.T) {
		sweeper := service.NewSessionSweeper(time.Minute, time.Hour, &countingEvictor{})

		sweeper.Stop()

		assert.NotPanics(t, sweeper.Stop)
	})
}
