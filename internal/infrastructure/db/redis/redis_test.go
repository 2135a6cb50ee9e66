package redis

import (
	"context"
	"testing"
	"time"
)

func TestConfig_Enabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatalf("empty config must be disabled")
	}
	if !(Config{Addr: "localhost:6379"}).Enabled() {
		t.Fatalf("config with address must be enabled")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	// Port 1 on loopback is reserved and refuses connections.
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestIdempotencyStore_KeyIsNamespacedPerUser(t *testing.T) {
	s := NewIdempotencyStore(nil)
	if a, b := s.key("u1", "k"), s.key("u2", "k"); a == b {
		t.Fatalf("keys for different users must differ: %s", a)
	}
	if got := s.key("u1", "k"); got != "idem:checkin:u1:k" {
		t.Fatalf("unexpected key %s", got)
	}
}
