package memorystore

import (
	"context"
	"testing"
	"time"
)

func TestKeySetCache(t *testing.T) {
	c := NewKeySetCache(time.Hour)

	if _, ok, _ := c.Get(context.Background()); ok {
		t.Fatal("empty cache should miss")
	}

	doc := []byte(`{"keys":[]}`)
	if err := c.Put(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	raw, ok, err := c.Get(context.Background())
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if string(raw) != string(doc) {
		t.Errorf("raw = %s", raw)
	}
}

func TestKeySetCacheExpiry(t *testing.T) {
	c := NewKeySetCache(10 * time.Millisecond)
	if err := c.Put(context.Background(), []byte("{}")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, ok, _ := c.Get(context.Background()); ok {
		t.Error("expired entry should miss")
	}
}
