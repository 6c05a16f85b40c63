package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"09:00", false},
		{"00:00", false},
		{"23:59", false},
		{"24:00", true},
		{"9:00", true},
		{"09:60", true},
		{"9am", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := TimeString(tt.input).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("09:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = TimeString("bad").Minutes()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestFromMinutes(t *testing.T) {
	ts, err := FromMinutes(570)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	_, err = FromMinutes(-1)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = FromMinutes(24 * 60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), ts)

	// Выход за пределы суток — ошибка, а не перенос на следующий день
	_, err = TimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))

	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_At(t *testing.T) {
	date := time.Date(2025, 6, 10, 23, 45, 12, 0, time.UTC)

	got, err := TimeString("09:30").At(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит с секундами
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("14:00:00")))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.NoError(t, ts.Scan(time.Date(2025, 6, 10, 11, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:15"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("09:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
