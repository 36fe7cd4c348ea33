package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_TripsAtThreshold(t *testing.T) {
	b := NewBreaker(3)
	assert.True(t, b.Available())

	b.Failure()
	b.Failure()
	assert.True(t, b.Available())

	b.Failure()
	assert.False(t, b.Available())
}

func TestBreaker_SuccessResetsCounter(t *testing.T) {
	b := NewBreaker(3)

	b.Failure()
	b.Failure()
	b.Success()

	// Two more failures stay under the threshold after the reset
	b.Failure()
	b.Failure()
	assert.True(t, b.Available())

	b.Failure()
	assert.False(t, b.Available())
}

func TestBreaker_NoRecoveryOnceTripped(t *testing.T) {
	b := NewBreaker(1)
	b.Failure()
	assert.False(t, b.Available())

	b.Success()
	assert.False(t, b.Available(), "a tripped breaker stays tripped for the process lifetime")
}

func TestBreaker_ThresholdCoercedToOne(t *testing.T) {
	b := NewBreaker(0)
	b.Failure()
	assert.False(t, b.Available())
}
