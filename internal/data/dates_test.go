package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papersim/internal/market"
)

func TestToTimestampUTC(t *testing.T) {
	ts, err := ToTimestampUTC("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200), ts)

	ts, err = ToTimestampUTC("2024-01-01T12:30")
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200+12*3600+1800), ts)

	ts, err = ToTimestampUTC("2024-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200), ts)

	_, err = ToTimestampUTC("yesterday")
	assert.Error(t, err)
	_, err = ToTimestampUTC("")
	assert.Error(t, err)
}

func TestISOUTC(t *testing.T) {
	assert.Equal(t, "none", ISOUTC(0))
	assert.Equal(t, "2024-01-01T00:00:00Z", ISOUTC(1704067200))
}

func TestFilterByDate(t *testing.T) {
	bars := []market.Candle{
		{Timestamp: 1704067200},          // 2024-01-01 00:00
		{Timestamp: 1704067200 + 43200},  // 2024-01-01 12:00
		{Timestamp: 1704067200 + 86400},  // 2024-01-02 00:00
		{Timestamp: 1704067200 + 172800}, // 2024-01-03 00:00
	}

	// Date-only end bound includes the whole end day.
	filtered, startTS, endTS, err := FilterByDate(bars, "2024-01-01", "2024-01-02")
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
	assert.Equal(t, int64(1704067200), startTS)
	assert.Equal(t, int64(1704067200+86400+86399), endTS)

	// Open bounds pass everything through.
	filtered, _, _, err = FilterByDate(bars, "", "")
	require.NoError(t, err)
	assert.Len(t, filtered, 4)

	// Start-only.
	filtered, _, _, err = FilterByDate(bars, "2024-01-02", "")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	_, _, _, err = FilterByDate(bars, "bogus", "")
	assert.Error(t, err)
}
