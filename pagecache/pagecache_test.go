package pagecache

import (
	"testing"
	"time"

	"pagemap/pagemaptype"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestGetMissThenHit(t *testing.T) {
	c := New()
	if _, ok := c.Get("https://example.com"); ok {
		t.Error("expected miss on empty cache")
	}
	c.Put("https://example.com", pagemaptype.PageMap{URL: "https://example.com"})
	if _, ok := c.Get("https://example.com"); !ok {
		t.Error("expected hit after put")
	}
}

func TestTTLExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := New(WithClock(clock), WithTTL(10*time.Second))
	c.Put("https://example.com", pagemaptype.PageMap{URL: "https://example.com"})
	clock.t = clock.t.Add(20 * time.Second)
	if _, ok := c.Get("https://example.com"); ok {
		t.Error("expected expiry after TTL elapsed")
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New(WithCapacity(2))
	c.Put("a", pagemaptype.PageMap{URL: "a"})
	c.Put("b", pagemaptype.PageMap{URL: "b"})
	c.Put("c", pagemaptype.PageMap{URL: "c"})
	if _, ok := c.Get("a"); ok {
		t.Error("expected least-recently-used entry evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected most recent entry present")
	}
}

func TestCompareThreeTiers(t *testing.T) {
	prev := pagemaptype.Fingerprint{DOMStructureHash: "s1", ContentHash: "c1"}

	unchanged := Compare(prev, prev)
	if !unchanged.Unchanged {
		t.Error("expected unchanged for identical fingerprints")
	}

	contentOnly := Compare(prev, pagemaptype.Fingerprint{DOMStructureHash: "s1", ContentHash: "c2"})
	if !contentOnly.ContentChanged || contentOnly.StructureChanged {
		t.Errorf("expected content-only change, got %+v", contentOnly)
	}

	structural := Compare(prev, pagemaptype.Fingerprint{DOMStructureHash: "s2", ContentHash: "c1"})
	if !structural.StructureChanged {
		t.Errorf("expected structure change, got %+v", structural)
	}
}
