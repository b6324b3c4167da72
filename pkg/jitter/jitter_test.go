package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Second, Duration(time.Second, 0))
	assert.Equal(t, time.Duration(0), Duration(0, DefaultJitter))

	for i := 0; i < 100; i++ {
		d := Duration(time.Second, DefaultJitter)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestExponentialBackoff(t *testing.T) {
	base, max := 200*time.Millisecond, 5*time.Second

	assert.Equal(t, 200*time.Millisecond, ExponentialBackoff(base, max, 0, 0))
	assert.Equal(t, 800*time.Millisecond, ExponentialBackoff(base, max, 2, 0))
	assert.Equal(t, max, ExponentialBackoff(base, max, 10, 0))
	assert.Equal(t, max, ExponentialBackoff(base, max, 1000, 0))

	d := ExponentialBackoff(base, max, 1, DefaultJitter)
	assert.GreaterOrEqual(t, d, 400*time.Millisecond)
	assert.LessOrEqual(t, d, 600*time.Millisecond)
}
