package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_Burst(t *testing.T) {
	l := NewClientLimiter(1, 2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "third submission within the burst window")

	assert.True(t, l.Allow("b"), "clients are limited independently")
	assert.Equal(t, 2, l.Len())
}

func TestClientLimiter_Disabled(t *testing.T) {
	l := NewClientLimiter(0, 0)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a"))
	}
	assert.Equal(t, 0, l.Len())
}

func TestClientLimiter_Prune(t *testing.T) {
	l := NewClientLimiter(60, 1)
	l.Allow("a")
	l.Allow("b")

	assert.Equal(t, 0, l.Prune(time.Hour))
	assert.Equal(t, 2, l.Prune(-time.Second))
	assert.Equal(t, 0, l.Len())
}
