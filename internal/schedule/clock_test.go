// cuaderno-crm/internal/schedule/clock_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true}, // без ведущего нуля формат не принимается
		{"0930", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRange, "ParseClock(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseClock(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseClock(%q)", tt.in)
	}
}

func TestWindowMinutes(t *testing.T) {
	minutes, err := WindowMinutes("08:00", "16:00")
	require.NoError(t, err)
	assert.Equal(t, 480, minutes)

	// Пустое и перевёрнутое окно недопустимы.
	_, err = WindowMinutes("16:00", "08:00")
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = WindowMinutes("08:00", "08:00")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestToOffsetMinutes(t *testing.T) {
	offset, err := ToOffsetMinutes("09:30", "08:00")
	require.NoError(t, err)
	assert.Equal(t, 90, offset)

	// Начало до окна даёт отрицательное смещение, обрезка - дело вызывающего.
	offset, err = ToOffsetMinutes("07:15", "08:00")
	require.NoError(t, err)
	assert.Equal(t, -45, offset)
}

// Смещение линейно: сдвиг времени на 30 минут сдвигает смещение ровно на 30.
func TestToOffsetMinutesLinearity(t *testing.T) {
	for _, base := range []string{"00:00", "08:45", "15:10", "23:00"} {
		shifted, err := AddMinutes(base, 30)
		require.NoError(t, err)

		a, err := ToOffsetMinutes(base, "08:00")
		require.NoError(t, err)
		b, err := ToOffsetMinutes(shifted, "08:00")
		require.NoError(t, err)
		if shifted > base { // без перехода через полночь
			assert.Equal(t, a+30, b, "база %s", base)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	// Среда 2026-01-07 -> понедельник 2026-01-05.
	wednesday := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)
	monday := StartOfWeek(wednesday)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, "2026-01-05", monday.Format("2006-01-02"))
	assert.Equal(t, 0, monday.Hour())

	// Воскресенье принадлежит начатой неделе, а не следующей.
	sunday := time.Date(2026, 1, 11, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-05", StartOfWeek(sunday).Format("2006-01-02"))

	// Понедельник отображается сам в себя: функция идемпотентна.
	assert.True(t, StartOfWeek(monday).Equal(monday))
}

func TestEndOfWeek(t *testing.T) {
	wednesday := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	// Учебная неделя заканчивается пятницей, календарная - воскресеньем.
	assert.Equal(t, "2026-01-09", EndOfTeachingWeek(wednesday).Format("2006-01-02"))
	assert.Equal(t, "2026-01-11", EndOfWeek(wednesday).Format("2006-01-02"))
}

func TestDateOf(t *testing.T) {
	wednesday := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-05", DateOf(wednesday, Monday))
	assert.Equal(t, "2026-01-09", DateOf(wednesday, Friday))
}
