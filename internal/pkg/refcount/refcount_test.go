package refcount

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type entity struct {
	ref      Counter
	released int
}

func newEntity() *entity {
	e := &entity{}
	e.ref.Init("entity", func() { e.released++ })
	return e
}

func (e *entity) Take() *entity { e.ref.Retain(); return e }
func (e *entity) Give()         { e.ref.Release() }

func TestCounter(t *testing.T) {
	t.Run("starts with the creator reference", func(t *testing.T) {
		e := newEntity()
		assert.Equal(t, int64(1), e.ref.Count())
	})

	t.Run("give of take leaves the count unchanged", func(t *testing.T) {
		e := newEntity()
		e.Take().Give()

		assert.Equal(t, int64(1), e.ref.Count())
		assert.Zero(t, e.released)
	})

	t.Run("last give runs the release hook once", func(t *testing.T) {
		e := newEntity()
		e.Take()
		e.Give()
		assert.Zero(t, e.released)

		last := e.ref.Release()
		assert.True(t, last)
		assert.Equal(t, 1, e.released)
	})

	t.Run("give past zero panics", func(t *testing.T) {
		e := newEntity()
		e.Give()

		assert.Panics(t, func() { e.Give() })
		assert.Equal(t, 1, e.released)
	})

	t.Run("take after release panics", func(t *testing.T) {
		e := newEntity()
		e.Give()

		assert.Panics(t, func() { e.Take() })
	})

	t.Run("try retain succeeds while referenced", func(t *testing.T) {
		e := newEntity()

		require.True(t, e.ref.TryRetain())
		assert.Equal(t, int64(2), e.ref.Count())
	})

	t.Run("try retain fails after release", func(t *testing.T) {
		e := newEntity()
		e.Give()

		assert.False(t, e.ref.TryRetain())
		assert.Zero(t, e.ref.Count())
		assert.Equal(t, 1, e.released)
	})

	t.Run("concurrent take and give", func(t *testing.T) {
		e := newEntity()

		var wg sync.WaitGroup
		for range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					e.Take().Give()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int64(1), e.ref.Count())
		e.Give()
		assert.Equal(t, 1, e.released)
	})
}

func TestGiveAll(t *testing.T) {
	t.Run("gives every non-nil handle", func(t *testing.T) {
		a, b := newEntity(), newEntity()
		GiveAll([]*entity{a.Take(), nil, b.Take()})

		assert.Equal(t, int64(1), a.ref.Count())
		assert.Equal(t, int64(1), b.ref.Count())
	})
}

func TestCounterRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := newEntity()
		takes := rapid.IntRange(0, 50).Draw(t, "takes")

		for range takes {
			e.Take()
		}
		for i := range takes {
			if e.ref.Release() {
				t.Fatalf("released early after %d gives of %d takes", i+1, takes)
			}
		}

		if e.released != 0 {
			t.Fatalf("release hook ran with the creator reference outstanding")
		}
		if !e.ref.Release() {
			t.Fatalf("creator give did not release")
		}
		if e.released != 1 {
			t.Fatalf("release hook ran %d times", e.released)
		}
	})
}
