package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetBeforeExpiry(t *testing.T) {
	c := New[string]()
	c.Set("entries", "payload", time.Minute)

	v, ok := c.Get("entries")
	assert.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestGetAfterExpiryEvicts(t *testing.T) {
	c := New[int]()
	c.Set("k", 42, 10*time.Millisecond)

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entry should be evicted on read")
}

func TestSetOverwrites(t *testing.T) {
	c := New[int]()
	c.Set("k", 1, time.Minute)
	c.Set("k", 2, time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestClearSingleKey(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestClearAll(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()

	assert.Zero(t, c.Len())
}

func TestMissOnUnknownKey(t *testing.T) {
	c := New[string]()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}
