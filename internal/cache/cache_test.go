package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/extraction"
	"github.com/fyrsmithlabs/payplan/internal/provider"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func result(amount int64) extraction.Result {
	res := extraction.EmptyResult(dates.LocaleUS)
	res.Items = append(res.Items, extraction.Item{
		ID:            fmt.Sprintf("item-%d", amount),
		Provider:      provider.Klarna,
		InstallmentNo: 1,
		DueDate:       "2026-03-15",
		Amount:        amount,
		Currency:      "USD",
		Confidence:    0.95,
	})
	return res
}

func key(i int) Key {
	return KeyFor(fmt.Sprintf("text %d", i), "UTC", extraction.Options{})
}

func TestCache_RoundTrip(t *testing.T) {
	clock := newClock()
	c := New(10, time.Minute, WithClock(clock.Now))

	c.Set("hello", "UTC", extraction.Options{}, result(100))

	got, ok := c.Get("hello", "UTC", extraction.Options{})
	require.True(t, ok)
	assert.Equal(t, result(100), got)
}

func TestCache_TTLExpiry(t *testing.T) {
	clock := newClock()
	c := New(10, time.Minute, WithClock(clock.Now))

	c.SetKey(key(1), result(100))
	clock.Advance(59 * time.Second)
	_, ok := c.GetKey(key(1))
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.GetKey(key(1))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(3, time.Hour)

	c.SetKey(key(1), result(1))
	c.SetKey(key(2), result(2))
	c.SetKey(key(3), result(3))

	// Touch 1 so 2 becomes least recently used.
	_, ok := c.GetKey(key(1))
	require.True(t, ok)

	c.SetKey(key(4), result(4))

	_, ok = c.GetKey(key(2))
	assert.False(t, ok, "least recently used key should be evicted")
	for _, i := range []int{1, 3, 4} {
		_, ok = c.GetKey(key(i))
		assert.True(t, ok, "key %d", i)
	}
	assert.Equal(t, 3, c.Len())
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New(2, time.Hour)

	c.SetKey(key(1), result(1))
	c.SetKey(key(2), result(2))
	c.SetKey(key(1), result(10))

	assert.Equal(t, 2, c.Len())
	got, ok := c.GetKey(key(1))
	require.True(t, ok)
	assert.Equal(t, int64(10), got.Items[0].Amount)
}

func TestCache_InvalidResultNotStored(t *testing.T) {
	c := New(2, time.Hour)

	bad := result(100)
	bad.Items[0].Amount = 0
	c.SetKey(key(1), bad)

	assert.Equal(t, 0, c.Len())
	c.SetKey(key(2), extraction.Result{})
	assert.Equal(t, 0, c.Len())
}

func TestCache_MalformedEntryIsMiss(t *testing.T) {
	c := New(2, time.Hour)
	c.SetKey(key(1), result(100))

	c.mu.Lock()
	c.items[key(1)].Value = "garbage"
	c.mu.Unlock()

	_, ok := c.GetKey(key(1))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	// A hand-built element with a corrupt value is also dropped.
	c.mu.Lock()
	el := c.ll.PushFront(&entry{key: key(2), value: extraction.Result{}, expiresAt: time.Now().Add(time.Hour)})
	c.items[key(2)] = el
	c.mu.Unlock()

	_, ok = c.GetKey(key(2))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := New(2, time.Hour)

	res := result(100)
	c.SetKey(key(1), res)
	res.Items[0].Amount = 1

	got, _ := c.GetKey(key(1))
	assert.Equal(t, int64(100), got.Items[0].Amount)

	got.Items[0].Amount = 2
	again, _ := c.GetKey(key(1))
	assert.Equal(t, int64(100), again.Items[0].Amount)
}

func TestCache_Stats(t *testing.T) {
	c := New(5, time.Hour)

	assert.Equal(t, Stats{Capacity: 5, TTL: "1h0m0s"}, c.Stats())

	c.SetKey(key(1), result(1))
	c.GetKey(key(1))
	c.GetKey(key(1))
	c.GetKey(key(2))

	s := c.Stats()
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, uint64(3), s.Total)
	assert.InDelta(t, 2.0/3.0, s.HitRate, 1e-9)
	assert.Equal(t, 1, s.Size)
}

func TestCache_ClearAndDelete(t *testing.T) {
	c := New(5, time.Hour)
	c.SetKey(key(1), result(1))
	c.SetKey(key(2), result(2))

	c.Delete(key(1))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.GetKey(key(2))
	assert.False(t, ok)
}

func TestNew_Defaults(t *testing.T) {
	c := New(0, 0)
	assert.Equal(t, DefaultCapacity, c.Stats().Capacity)
	assert.Equal(t, DefaultTTL.String(), c.Stats().TTL)
}

func TestKeyFor(t *testing.T) {
	base := KeyFor("text", "UTC", extraction.Options{})

	assert.Equal(t, base, KeyFor("  text\n", "UTC", extraction.Options{DateLocale: dates.LocaleUS}))
	assert.NotEqual(t, base, KeyFor("text", "Europe/Paris", extraction.Options{}))
	assert.NotEqual(t, base, KeyFor("text", "UTC", extraction.Options{DateLocale: dates.LocaleEU}))
	assert.Len(t, string(base), 64)
}
