package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDraft struct {
	Qty int
}

func TestStore_PutGetList(t *testing.T) {
	s := NewStore[fakeDraft](0)

	s.Put("u1", 30, fakeDraft{Qty: 1})
	s.Put("u1", 10, fakeDraft{Qty: 2})
	s.Put("u1", 30, fakeDraft{Qty: 3}) // reemplaza sin mover la posición

	e, ok := s.Get("u1", 30)
	require.True(t, ok)
	assert.Equal(t, 3, e.Value.Qty)

	list := s.List("u1")
	require.Len(t, list, 2)
	assert.Equal(t, int64(30), list[0].MaterialID)
	assert.Equal(t, int64(10), list[1].MaterialID)

	_, ok = s.Get("u2", 30)
	assert.False(t, ok, "los borradores son por dueño")
	assert.Empty(t, s.List("u2"))
}

func TestStore_RemoveYClear(t *testing.T) {
	s := NewStore[fakeDraft](0)
	s.Put("u1", 1, fakeDraft{})
	s.Put("u1", 2, fakeDraft{})
	s.Put("u2", 1, fakeDraft{})

	assert.True(t, s.Remove("u1", 1))
	assert.False(t, s.Remove("u1", 1))
	assert.Len(t, s.List("u1"), 1)

	// Clear solo afecta al dueño indicado
	assert.Equal(t, 1, s.Clear("u1"))
	assert.Empty(t, s.List("u1"))
	assert.Len(t, s.List("u2"), 1)
	assert.Equal(t, 0, s.Clear("nadie"))
}

func TestStore_SweepExpiraAbandonados(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	s := NewStore[fakeDraft](30 * time.Minute)
	s.now = func() time.Time { return now }

	s.Put("u1", 1, fakeDraft{})
	now = now.Add(20 * time.Minute)
	s.Put("u1", 2, fakeDraft{})
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	list := s.List("u1")
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].MaterialID)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, s.Sweep())
	assert.Empty(t, s.List("u1"))
}

func TestStore_SinTTLNoExpira(t *testing.T) {
	s := NewStore[fakeDraft](0)
	s.Put("u1", 1, fakeDraft{})
	assert.Equal(t, 0, s.Sweep())
}

func TestStore_EscriturasConcurrentes(t *testing.T) {
	s := NewStore[fakeDraft](0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Put("u1", int64(i%5), fakeDraft{Qty: i})
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.List("u1"), 5)
}

func TestRunSweeper_TerminaConContexto(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, time.Millisecond, zerolog.Nop(), NewStore[fakeDraft](time.Minute))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunSweeper no terminó al cancelar el contexto")
	}
}
