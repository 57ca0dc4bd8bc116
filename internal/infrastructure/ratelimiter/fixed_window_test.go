package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewFixedWindow(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("1.2.3.4")
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retry := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
}

func TestKeysAreIndependent(t *testing.T) {
	rl := NewFixedWindow(1, time.Minute)
	defer rl.Close()

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("b")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.False(t, ok)
}

func TestWindowResets(t *testing.T) {
	rl := NewFixedWindow(1, 20*time.Millisecond)
	defer rl.Close()

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.False(t, ok)

	time.Sleep(30 * time.Millisecond)

	ok, _ = rl.Allow("a")
	assert.True(t, ok)
}
