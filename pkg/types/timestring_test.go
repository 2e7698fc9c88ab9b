package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	// Конец суток - валидная правая граница
	ts, err = NewTimeStringFromString("24:00")
	require.NoError(t, err)
	assert.Equal(t, DayEnd, ts)

	for _, invalid := range []string{"", "9:30:00", "25:00", "10:65", "abcd", "24:01"} {
		_, err := NewTimeStringFromString(invalid)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "value %q must be rejected", invalid)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:45")
	m, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, m)

	m, err = DayEnd.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 1440, m)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:00")

	res, err := ts.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), res)

	// Конец суток допустим как правая граница интервала
	res, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), res)

	_, err = TimeString("23:45").AddMinutes(30)
	assert.Error(t, err)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore(TimeString("10:00")))
	assert.True(t, TimeString("10:00").IsAfter(TimeString("09:59")))
	assert.False(t, TimeString("10:00").IsBefore(TimeString("10:00")))

	// "24:00" лексикографически позже любого валидного HH:MM
	assert.True(t, TimeString("23:59").IsBefore(TimeString("24:00")))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("11:30")))
	assert.Equal(t, TimeString("11:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 14, 15, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("15:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
