// cuaderno-crm/internal/schedule/overlap.go
package schedule

import (
	"errors"
	"fmt"
)

// Таксономия ошибок ядра расписания. Обработчики переводят их в
// человекочитаемые сообщения и HTTP-статусы.
var (
	// ErrInvalidRange - перевёрнутый или некорректный интервал времени.
	ErrInvalidRange = errors.New("недопустимый интервал времени")
	// ErrMissingField - отсутствует обязательное поле (форма или импорт).
	ErrMissingField = errors.New("отсутствует обязательное поле")
	// ErrUnknownLabel - нераспознанный день недели или тип записи (импорт).
	ErrUnknownLabel = errors.New("нераспознанное значение")
	// ErrUnknownGroup - урок ссылается на несуществующую группу.
	ErrUnknownGroup = errors.New("группа не найдена")
	// ErrNotFound - запись с указанным идентификатором отсутствует в хранилище.
	ErrNotFound = errors.New("запись не найдена")
	// ErrNothingToExport - после отбрасывания уроков без группы экспортировать нечего.
	ErrNothingToExport = errors.New("нет данных для экспорта")
)

// ConflictError - пересечение интервалов двух записей одного дня.
// Несёт конфликтующую запись, чтобы вызывающий код мог показать
// день, время и название.
type ConflictError struct {
	Day   Day
	Start string
	End   string
	With  *Entry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("интервал %s-%s пересекается с записью %s-%s",
		e.Start, e.End, e.With.Start, e.With.End)
}

// CheckOverlap проверяет интервал [start, end) на пересечение с записями
// того же дня. Сравнение идёт в минутах от полуночи: проверка должна
// покрывать весь диапазон 00:00-23:59 независимо от видимого окна сетки.
// excludeID исключает редактируемую запись из сравнения с самой собой;
// при создании передаётся пустая строка.
//
// Интервалы полуоткрытые: записи "впритык" (конец одной равен началу
// другой) конфликтом не считаются.
func CheckOverlap(day Day, start, end string, entries []*Entry, excludeID string) error {
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if s >= e {
		return fmt.Errorf("%w: начало %s не раньше конца %s", ErrInvalidRange, start, end)
	}

	for _, other := range entries {
		if other.ID == excludeID && excludeID != "" {
			continue
		}
		if other.Day != day {
			continue
		}
		os, err := ParseClock(other.Start)
		if err != nil {
			continue // записи с битым временем не участвуют в проверке
		}
		oe, err := ParseClock(other.End)
		if err != nil {
			continue
		}
		if s < oe && e > os {
			return &ConflictError{Day: day, Start: start, End: end, With: other}
		}
	}
	return nil
}

// ValidateSet проверяет весь набор-кандидат попарно: каждая запись против
// каждой другой записи того же дня. Используется импортом, где набор
// принимается целиком или отклоняется целиком; сравнение с уже
// зафиксированными строками не заменяет полной попарной проверки.
func ValidateSet(entries []*Entry) error {
	for i, a := range entries {
		s, err := ParseClock(a.Start)
		if err != nil {
			return err
		}
		e, err := ParseClock(a.End)
		if err != nil {
			return err
		}
		if s >= e {
			return fmt.Errorf("%w: начало %s не раньше конца %s", ErrInvalidRange, a.Start, a.End)
		}
		for j, b := range entries {
			if i == j || a.Day != b.Day {
				continue
			}
			bs, err := ParseClock(b.Start)
			if err != nil {
				return err
			}
			be, err := ParseClock(b.End)
			if err != nil {
				return err
			}
			if s < be && e > bs {
				return &ConflictError{Day: a.Day, Start: a.Start, End: a.End, With: b}
			}
		}
	}
	return nil
}
