package memcache

import (
	"testing"
	"time"
)

func TestRevokedTokens_RevokeAndExpire(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRevokedTokens()
	store.now = func() time.Time { return now }

	store.Revoke("jti-1", now.Add(time.Hour))
	store.Revoke("", now.Add(time.Hour))

	if !store.IsRevoked("jti-1") {
		t.Fatalf("IsRevoked(jti-1) = false, want true")
	}
	if store.IsRevoked("jti-2") {
		t.Fatalf("IsRevoked(jti-2) = true, want false")
	}

	now = now.Add(2 * time.Hour)
	if store.IsRevoked("jti-1") {
		t.Fatalf("IsRevoked after expiry = true, want false")
	}
	if got := store.Sweep(); got != 1 {
		t.Fatalf("Sweep() = %d, want 1", got)
	}
	if got := store.Sweep(); got != 0 {
		t.Fatalf("second Sweep() = %d, want 0", got)
	}
}
