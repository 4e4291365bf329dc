package memorylimiter

import (
	"testing"
	"time"
)

func TestAllowNamedWithinLimit(t *testing.T) {
	l := New(map[string]Limit{"actors.list": {Limit: 3, Window: time.Minute}})

	for i := 0; i < 3; i++ {
		ok, err := l.AllowNamed("actors.list", "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := l.AllowNamed("actors.list", "10.0.0.1"); ok {
		t.Error("fourth request should be denied")
	}
	// A different client is unaffected.
	if ok, _ := l.AllowNamed("actors.list", "10.0.0.2"); !ok {
		t.Error("other client should be allowed")
	}
}

func TestAllowNamedWindowSlides(t *testing.T) {
	l := New(map[string]Limit{"default": {Limit: 1, Window: 20 * time.Millisecond}})

	if ok, _ := l.AllowNamed("movies.list", "c"); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _ := l.AllowNamed("movies.list", "c"); ok {
		t.Fatal("second request inside window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if ok, _ := l.AllowNamed("movies.list", "c"); !ok {
		t.Error("request after the window should pass")
	}
}

func TestAllowNamedValidation(t *testing.T) {
	l := New(nil)
	if _, err := l.AllowNamed("", "key"); err == nil {
		t.Error("empty bucket should error")
	}
	if _, err := l.AllowNamed("bucket", ""); err == nil {
		t.Error("empty key should error")
	}

	var nilLimiter *Limiter
	if ok, err := nilLimiter.AllowNamed("bucket", "key"); err != nil || !ok {
		t.Error("nil limiter should allow everything")
	}
}
