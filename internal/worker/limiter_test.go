package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, -1); l.defaultBurst != 5 {
		t.Errorf("expected default burst 5, got %d", l.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx := context.Background()

	if err := l.Wait(ctx, "http://localhost:9000/?properties=x"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := l.Wait(ctx, "http://corenlp.internal:9000"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := l.Wait(ctx, "no-host"); err == nil {
		t.Error("expected error for a URL without host")
	}
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow("http://localhost:9000") {
		t.Fatal("first request should pass")
	}
	if l.Allow("http://localhost:9000/again") {
		t.Error("second request to the same host should be throttled")
	}
	if !l.Allow("http://localhost:9001") {
		t.Error("another host has its own budget")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !l.Allow("http://localhost:9000") {
			t.Fatalf("request %d throttled with rate limiting disabled", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(100, 10)
	l.SetHostRate("slow:9000", 0.1, 1)

	if !l.Allow("http://slow:9000") {
		t.Error("first request should pass")
	}
	if l.Allow("http://slow:9000") {
		t.Error("second request should be throttled")
	}
	if !l.Allow("http://fast:9000") {
		t.Error("other host should pass")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("http://localhost:9000/?properties=%7B%7D")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "localhost:9000" {
		t.Errorf("expected localhost:9000, got %s", host)
	}
	if _, err := hostOf("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
