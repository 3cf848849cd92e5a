// cuaderno-crm/internal/schedule/grid.go
package schedule

import (
	"sort"
	"time"
)

// NotesFilter - фильтр сетки по наличию заметки на дату ячейки.
type NotesFilter string

const (
	NotesAll     NotesFilter = ""
	NotesPresent NotesFilter = "with"
	NotesAbsent  NotesFilter = "without"
)

// Filter - активные фильтры сетки.
// Приоритет: конкретная группа, затем "все уроки", затем точный тип.
type Filter struct {
	Kind       Kind        // точный тип записи; пустой - без фильтра
	AllClasses bool        // только записи типа "урок", любая группа
	GroupKey   string      // только уроки конкретной группы
	Notes      NotesFilter // наличие заметок на дату ячейки
}

// View - явное состояние сеанса просмотра: неделя, видимое окно и фильтры.
// Передаётся параметром, чтобы построение сетки оставалось чистой функцией.
type View struct {
	WeekOf       time.Time // любая дата внутри отображаемой недели
	DisplayStart string    // "HH:MM"
	DisplayEnd   string
	Filter       Filter
}

// GridItem - одна позиционированная запись в колонке дня.
// Top и Height выражены в минутах от начала видимого окна, уже обрезаны
// до его границ; пересчёт в пиксели - дело фронтенда.
type GridItem struct {
	EntryID  string `json:"entry_id"`
	Kind     Kind   `json:"type"`
	Title    string `json:"title"`
	Color    string `json:"color"`
	Start    string `json:"start_time"`
	End      string `json:"end_time"`
	Top      int    `json:"top"`
	Height   int    `json:"height"`
	HasNotes bool   `json:"has_notes"`
}

// GridDay - колонка одного учебного дня.
type GridDay struct {
	Day   Day        `json:"day_of_week"`
	Date  string     `json:"date"`
	Items []GridItem `json:"items"`
}

// Grid - результат проекции расписания на неделю.
type Grid struct {
	Monday        string    `json:"monday"`
	Friday        string    `json:"friday"`
	WindowMinutes int       `json:"window_minutes"`
	Days          []GridDay `json:"days"`
	Empty         bool      `json:"empty"`
}

// BuildGrid проецирует записи на сетку недели. Функция чистая: хранилище
// не изменяется, повторный вызов с теми же аргументами даёт тот же результат,
// перерисовка - это просто повторный запуск.
func BuildGrid(entries []*Entry, view View, dir GroupDirectory) (*Grid, error) {
	window, err := WindowMinutes(view.DisplayStart, view.DisplayEnd)
	if err != nil {
		return nil, err
	}

	monday := StartOfWeek(view.WeekOf)
	grid := &Grid{
		Monday:        monday.Format("2006-01-02"),
		Friday:        EndOfTeachingWeek(view.WeekOf).Format("2006-01-02"),
		WindowMinutes: window,
		Empty:         true,
	}

	for day := Monday; day <= Friday; day++ {
		date := DateOf(view.WeekOf, day)
		col := GridDay{Day: day, Date: date}

		var dayEntries []*Entry
		for _, e := range entries {
			if e.Day != day {
				continue
			}
			if !matchesFilter(e, view.Filter, date) {
				continue
			}
			dayEntries = append(dayEntries, e)
		}

		// Формат "HH:MM" с ведущими нулями сортируется как строка;
		// записи без времени начала уходят в конец.
		sort.SliceStable(dayEntries, func(i, j int) bool {
			a, b := dayEntries[i].Start, dayEntries[j].Start
			if a == "" {
				return false
			}
			if b == "" {
				return true
			}
			return a < b
		})

		for _, e := range dayEntries {
			item, ok := positionItem(e, view.DisplayStart, window, date, dir)
			if !ok {
				continue
			}
			col.Items = append(col.Items, item)
			grid.Empty = false
		}
		grid.Days = append(grid.Days, col)
	}
	return grid, nil
}

// positionItem переводит время записи в координаты окна и обрезает их до
// видимых границ. Запись целиком вне окна не отображается.
func positionItem(e *Entry, displayStart string, window int, date string, dir GroupDirectory) (GridItem, bool) {
	top, err := ToOffsetMinutes(e.Start, displayStart)
	if err != nil {
		return GridItem{}, false
	}
	bottom, err := ToOffsetMinutes(e.End, displayStart)
	if err != nil {
		return GridItem{}, false
	}
	if top < 0 {
		top = 0
	}
	if bottom > window {
		bottom = window
	}
	if bottom-top <= 0 {
		return GridItem{}, false
	}
	return GridItem{
		EntryID:  e.ID,
		Kind:     e.Kind,
		Title:    e.DisplayName(dir),
		Color:    e.DisplayColor(dir),
		Start:    e.Start,
		End:      e.End,
		Top:      top,
		Height:   bottom - top,
		HasNotes: e.HasNoteOn(date),
	}, true
}

func matchesFilter(e *Entry, f Filter, date string) bool {
	switch {
	case f.GroupKey != "":
		if e.Kind != KindClass || e.Class == nil || e.Class.GroupKey != f.GroupKey {
			return false
		}
	case f.AllClasses:
		if e.Kind != KindClass {
			return false
		}
	case f.Kind != "":
		if e.Kind != f.Kind {
			return false
		}
	}

	switch f.Notes {
	case NotesPresent:
		return e.HasNoteOn(date)
	case NotesAbsent:
		return !e.HasNoteOn(date)
	}
	return true
}
