package middleware

import (
	"testing"
	"time"
)

func TestCooldown_Allow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown(60 * time.Second)
	c.now = func() time.Time { return now }

	if !c.Allow("u1") {
		t.Fatal("first call should be allowed")
	}
	if c.Allow("u1") {
		t.Error("second call inside cooldown should be denied")
	}

	// Другой пользователь — независимый кулдаун
	if !c.Allow("u2") {
		t.Error("cooldown leaked between users")
	}

	now = now.Add(59 * time.Second)
	if c.Allow("u1") {
		t.Error("allowed 1s before cooldown expiry")
	}

	now = now.Add(time.Second)
	if !c.Allow("u1") {
		t.Error("denied exactly at cooldown expiry")
	}
}
