package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStale(t *testing.T) {
	// 15m timeframe, 20% tolerance: anything within 1080s is fresh.
	assert.False(t, IsStale(1000, 1000+900, 900, 1.2))
	assert.False(t, IsStale(1000, 1000+1080, 900, 1.2))
	assert.True(t, IsStale(1000, 1000+1081, 900, 1.2))
}

func TestIsStaleDefaultTolerance(t *testing.T) {
	assert.False(t, IsStale(0, 1080, 900, 0))
	assert.True(t, IsStale(0, 1081, 900, 0))
}

func TestCloses(t *testing.T) {
	candles := []Candle{{Close: 1.5}, {Close: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, Closes(candles))
}
