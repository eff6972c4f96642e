package service

import "testing"

func TestSessionCachePutGetDrop(t *testing.T) {
	cache := NewSessionCache()
	if _, ok := cache.Get("t1"); ok {
		t.Fatal("empty cache returned a session")
	}

	first := &fakeSession{}
	cache.Put("t1", first)
	if got, ok := cache.Get("t1"); !ok || got != first {
		t.Fatal("cached session not returned")
	}

	second := &fakeSession{}
	cache.Put("t1", second)
	if got, _ := cache.Get("t1"); got != second {
		t.Fatal("put must replace previous session")
	}
	if cache.Len() != 1 {
		t.Fatalf("len = %d, want 1", cache.Len())
	}

	cache.Drop("t1")
	if _, ok := cache.Get("t1"); ok {
		t.Fatal("dropped session still present")
	}
}
