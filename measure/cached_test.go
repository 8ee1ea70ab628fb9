package measure

import (
	"errors"
	"sync"
	"testing"

	sprotty "github.com/tortmayr/sprotty-1"
)

var _ Measurer = (*Cached)(nil)

// countingMeasurer counts how often the wrapped measurer actually runs.
type countingMeasurer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *countingMeasurer) Measure(text string, size float64) (sprotty.Size, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return sprotty.Size{}, m.err
	}
	return sprotty.Size{Width: float64(len(text)) * size, Height: size}, nil
}

func (m *countingMeasurer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCachedMeasuresOncePerKey(t *testing.T) {
	inner := &countingMeasurer{}
	c := NewCached(inner, 0)

	want := sprotty.Size{Width: 70, Height: 14}
	for i := 0; i < 3; i++ {
		got, err := c.Measure("hello", 14)
		if err != nil {
			t.Fatalf("Measure: %v", err)
		}
		if got != want {
			t.Fatalf("Measure = %v, want %v", got, want)
		}
	}
	if inner.count() != 1 {
		t.Errorf("inner measurer ran %d times, want 1", inner.count())
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits and 1 miss", stats)
	}
	if stats.Len != 1 {
		t.Errorf("Len = %d, want 1", stats.Len)
	}
}

func TestCachedKeysOnTextAndSize(t *testing.T) {
	inner := &countingMeasurer{}
	c := NewCached(inner, 0)

	c.Measure("a", 10)
	c.Measure("a", 20)
	c.Measure("b", 10)
	if inner.count() != 3 {
		t.Errorf("inner measurer ran %d times, want 3 for three distinct keys", inner.count())
	}
}

// All sizes of one text share a shard, so with capacity 1 the second
// size evicts the first.
func TestCachedEvictsOldest(t *testing.T) {
	inner := &countingMeasurer{}
	c := NewCached(inner, 1)

	c.Measure("a", 10)
	c.Measure("a", 20)
	c.Measure("a", 10)
	if inner.count() != 3 {
		t.Errorf("inner measurer ran %d times, want 3 after eviction", inner.count())
	}
	if c.Stats().Evictions == 0 {
		t.Error("Stats().Evictions = 0, want > 0")
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	sentinel := errors.New("no font")
	inner := &countingMeasurer{err: sentinel}
	c := NewCached(inner, 0)

	for i := 0; i < 2; i++ {
		if _, err := c.Measure("hello", 14); !errors.Is(err, sentinel) {
			t.Fatalf("Measure error = %v, want %v", err, sentinel)
		}
	}
	if inner.count() != 2 {
		t.Errorf("inner measurer ran %d times, want 2 since errors are not cached", inner.count())
	}
	if got := c.Stats().Len; got != 0 {
		t.Errorf("Len = %d, want 0 after failed measurements", got)
	}
}

func TestCachedClear(t *testing.T) {
	inner := &countingMeasurer{}
	c := NewCached(inner, 0)

	c.Measure("hello", 14)
	c.Clear()
	if got := c.Stats().Len; got != 0 {
		t.Errorf("Len after Clear = %d, want 0", got)
	}
	c.Measure("hello", 14)
	if inner.count() != 2 {
		t.Errorf("inner measurer ran %d times, want 2 after Clear", inner.count())
	}
}

func TestCachedConcurrentUse(t *testing.T) {
	inner := &countingMeasurer{}
	c := NewCached(inner, 0)

	texts := []string{"alpha", "beta", "gamma", "delta"}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				text := texts[i%len(texts)]
				got, err := c.Measure(text, 14)
				if err != nil {
					t.Errorf("Measure(%q): %v", text, err)
					return
				}
				if got.Height != 14 {
					t.Errorf("Measure(%q).Height = %v, want 14", text, got.Height)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := c.Stats().Len; got != len(texts) {
		t.Errorf("Len = %d, want %d", got, len(texts))
	}
}
