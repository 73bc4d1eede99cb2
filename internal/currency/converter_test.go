package currency

import (
	"context"
	"sync"
	"testing"
)

// fakeProvider returns a fixed rate (or ErrUnavailable) and counts calls.
type fakeProvider struct {
	mu    sync.Mutex
	rate  float64
	fail  bool
	calls int
}

func (f *fakeProvider) Rate(_ context.Context, _, _ string) (float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return 0, ErrUnavailable
	}
	return f.rate, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestConvert_SameCurrencySkipsProvider(t *testing.T) {
	p := &fakeProvider{rate: 2.0}
	c := NewConverter(p, NewMemoryCache(0))

	got := c.Convert(context.Background(), 50, "USD", "USD")
	if got != 50 {
		t.Errorf("Convert() = %f, want 50", got)
	}
	if p.callCount() != 0 {
		t.Errorf("provider called %d times, want 0", p.callCount())
	}
}

func TestConvert_AppliesRate(t *testing.T) {
	p := &fakeProvider{rate: 0.9}
	c := NewConverter(p, NewMemoryCache(0))

	got := c.Convert(context.Background(), 100, "USD", "EUR")
	if got != 90 {
		t.Errorf("Convert() = %f, want 90", got)
	}
}

func TestConvert_FailOpenOnUnavailable(t *testing.T) {
	p := &fakeProvider{fail: true}
	c := NewConverter(p, NewMemoryCache(0))

	got := c.Convert(context.Background(), 50, "USD", "EUR")
	if got != 50 {
		t.Errorf("Convert() = %f, want 50 unchanged on provider failure", got)
	}
}

func TestConvert_CacheSuppressesSecondCall(t *testing.T) {
	p := &fakeProvider{rate: 1.5}
	c := NewConverter(p, NewMemoryCache(0))
	ctx := context.Background()

	if got := c.Convert(ctx, 10, "GBP", "USD"); got != 15 {
		t.Errorf("first Convert() = %f, want 15", got)
	}
	if got := c.Convert(ctx, 20, "GBP", "USD"); got != 30 {
		t.Errorf("second Convert() = %f, want 30", got)
	}
	if p.callCount() != 1 {
		t.Errorf("provider called %d times, want 1", p.callCount())
	}
}

func TestConvert_ConcurrentUse(t *testing.T) {
	p := &fakeProvider{rate: 1.1}
	c := NewConverter(p, NewMemoryCache(0))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Convert(ctx, 100, "USD", "EUR"); got != 110.00000000000001 && got != 110 {
				t.Errorf("Convert() = %f, want 110", got)
			}
		}()
	}
	wg.Wait()
}

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache(0)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "USD", "EUR"); ok {
		t.Fatal("empty cache should miss")
	}
	cache.Set(ctx, "USD", "EUR", 0.85)
	rate, ok := cache.Get(ctx, "USD", "EUR")
	if !ok || rate != 0.85 {
		t.Errorf("Get() = %f,%v, want 0.85,true", rate, ok)
	}
	// Direction matters: the reverse pair is a different key.
	if _, ok := cache.Get(ctx, "EUR", "USD"); ok {
		t.Error("reverse pair should miss")
	}
}
