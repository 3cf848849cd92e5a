// cuaderno-crm/internal/schedule/clock.go
package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// ParseClock разбирает время вида "HH:MM" (24 часа) в минуты от полуночи.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: некорректное время %q", ErrInvalidRange, s)
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("%w: некорректное время %q", ErrInvalidRange, s)
	}
	mm, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("%w: некорректное время %q", ErrInvalidRange, s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("%w: время %q вне диапазона 00:00-23:59", ErrInvalidRange, s)
	}
	return hh*60 + mm, nil
}

// FormatClock - обратная операция к ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes сдвигает время "HH:MM" на delta минут. Выход за границы суток
// не контролируется, результат обрезается по модулю суток.
func AddMinutes(s string, delta int) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	m = (m + delta) % (24 * 60)
	if m < 0 {
		m += 24 * 60
	}
	return FormatClock(m), nil
}

// WindowMinutes возвращает длину видимого окна сетки в минутах.
// Конфигурация с displayEnd <= displayStart недопустима: вызывающий код
// обязан отклонить её и оставить прежние значения.
func WindowMinutes(displayStart, displayEnd string) (int, error) {
	from, err := ParseClock(displayStart)
	if err != nil {
		return 0, err
	}
	to, err := ParseClock(displayEnd)
	if err != nil {
		return 0, err
	}
	if to <= from {
		return 0, fmt.Errorf("%w: окно отображения %s-%s пустое", ErrInvalidRange, displayStart, displayEnd)
	}
	return to - from, nil
}

// ToOffsetMinutes переводит время в минуты от начала видимого окна.
// Результат может быть отрицательным (запись начинается до окна) или
// превышать длину окна (заканчивается после); вызывающий код обрезает
// значение до [0, windowMinutes] перед пересчётом в пиксели.
func ToOffsetMinutes(t, displayStart string) (int, error) {
	m, err := ParseClock(t)
	if err != nil {
		return 0, err
	}
	from, err := ParseClock(displayStart)
	if err != nil {
		return 0, err
	}
	return m - from, nil
}

// StartOfWeek возвращает понедельник 00:00:00 недели, содержащей дату.
// Воскресенье относится к предыдущей (начатой) неделе.
func StartOfWeek(d time.Time) time.Time {
	shift := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		shift = 6
	}
	day := d.AddDate(0, 0, -shift)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, d.Location())
}

// EndOfTeachingWeek возвращает пятницу учебной недели (5 дней), которую
// использует сетка расписания.
func EndOfTeachingWeek(d time.Time) time.Time {
	return StartOfWeek(d).AddDate(0, 0, 4)
}

// EndOfWeek возвращает воскресенье полной календарной недели. Сеткой не
// используется, нужен для расчётов по календарю.
func EndOfWeek(d time.Time) time.Time {
	return StartOfWeek(d).AddDate(0, 0, 6)
}

// DateOf возвращает календарную дату учебного дня на неделе, содержащей weekOf,
// в формате ключей карт заметок ("2006-01-02").
func DateOf(weekOf time.Time, day Day) string {
	return StartOfWeek(weekOf).AddDate(0, 0, int(day-Monday)).Format("2006-01-02")
}
