package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/kkeutmal/internal/game"
	"github.com/robalobadob/kkeutmal/internal/store"
)

type countingPurger struct{ calls atomic.Int32 }

func (c *countingPurger) Purge(context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestSweep_PrunesAndPurges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.NewMemoryStore()
	require.NoError(t, st.Create(ctx, game.NewSession("idle")))

	p := &countingPurger{}
	done := make(chan struct{})
	go func() {
		sweep(ctx, st, p, 40*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := st.Get(ctx, "idle")
		return err != nil && p.calls.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop after cancel")
	}
}

func TestSweep_NilPurger(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	st := store.NewMemoryStore()
	assert.NotPanics(t, func() { sweep(ctx, st, nil, 20*time.Millisecond) })
}
