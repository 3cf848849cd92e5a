// cuaderno-crm/internal/schedule/overlap_test.go
package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOverlapConflict(t *testing.T) {
	existing := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
	}

	// 09:30-10:30 пересекает 09:00-10:00.
	err := CheckOverlap(Monday, "09:30", "10:30", existing, "")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	// Ошибка несёт конфликтующую запись для сообщения пользователю.
	assert.Equal(t, "a", conflict.With.ID)
	assert.Equal(t, Monday, conflict.Day)
	assert.Equal(t, "09:30", conflict.Start)
}

func TestCheckOverlapBackToBack(t *testing.T) {
	existing := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
	}
	// Интервалы полуоткрытые: запись "впритык" допустима с обеих сторон.
	assert.NoError(t, CheckOverlap(Monday, "10:00", "11:00", existing, ""))
	assert.NoError(t, CheckOverlap(Monday, "08:00", "09:00", existing, ""))
}

func TestCheckOverlapOtherDay(t *testing.T) {
	existing := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
	}
	// Тот же интервал в другой день не конфликтует.
	assert.NoError(t, CheckOverlap(Tuesday, "09:00", "10:00", existing, ""))
}

// Общее правило: [s1,e1) и [s2,e2) конфликтуют тогда и только тогда,
// когда s1 < e2 и e1 > s2.
func TestCheckOverlapPredicate(t *testing.T) {
	base := []*Entry{classEntry("a", Monday, "10:00", "12:00", "Math-3ESO-A")}
	tests := []struct {
		start, end string
		conflict   bool
	}{
		{"08:00", "10:00", false}, // заканчивается на границе
		{"12:00", "14:00", false}, // начинается на границе
		{"08:00", "10:01", true},  // задевает начало
		{"11:59", "14:00", true},  // задевает конец
		{"10:30", "11:30", true},  // целиком внутри
		{"09:00", "13:00", true},  // целиком накрывает
	}
	for _, tt := range tests {
		err := CheckOverlap(Monday, tt.start, tt.end, base, "")
		if tt.conflict {
			var conflict *ConflictError
			assert.ErrorAs(t, err, &conflict, "%s-%s", tt.start, tt.end)
		} else {
			assert.NoError(t, err, "%s-%s", tt.start, tt.end)
		}
	}
}

func TestCheckOverlapExcludesSelf(t *testing.T) {
	existing := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		dutyEntry("b", Monday, "10:00", "11:00", "Patio"),
	}
	// При редактировании запись не конфликтует сама с собой...
	assert.NoError(t, CheckOverlap(Monday, "09:15", "10:00", existing, "a"))
	// ...но с соседями - по-прежнему да.
	err := CheckOverlap(Monday, "09:15", "10:30", existing, "a")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "b", conflict.With.ID)
}

func TestCheckOverlapInvalidRange(t *testing.T) {
	tests := []struct{ start, end string }{
		{"10:00", "09:00"}, // перевёрнутый интервал
		{"10:00", "10:00"}, // пустой интервал
		{"25:00", "26:00"}, // вне суток
		{"0900", "10:00"},  // битый формат
	}
	for _, tt := range tests {
		err := CheckOverlap(Monday, tt.start, tt.end, nil, "")
		assert.ErrorIs(t, err, ErrInvalidRange, "%s-%s", tt.start, tt.end)
	}
}

func TestValidateSet(t *testing.T) {
	ok := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		classEntry("b", Monday, "10:00", "11:00", "Bio-1BACH-B"),
		dutyEntry("c", Tuesday, "09:30", "10:30", "Patio"),
	}
	assert.NoError(t, ValidateSet(ok))

	bad := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		dutyEntry("c", Tuesday, "09:30", "10:30", "Patio"),
		classEntry("b", Monday, "09:45", "10:45", "Bio-1BACH-B"),
	}
	var conflict *ConflictError
	require.True(t, errors.As(ValidateSet(bad), &conflict))
	assert.Equal(t, Monday, conflict.Day)
}
