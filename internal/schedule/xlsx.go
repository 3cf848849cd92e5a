// cuaderno-crm/internal/schedule/xlsx.go
package schedule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Названия колонок табличного файла. Контракт внешний и точный (вплоть до
// регистра и диакритики): файл приходит из испанской версии журнала.
const (
	ColDay     = "Día"
	ColKind    = "Tipo"
	ColSubject = "Asignatura"
	ColGrade   = "Curso"
	ColLetter  = "Grupo"
	ColName    = "Nombre"
	ColStart   = "Inicio"
	ColEnd     = "Fin"
	ColColor   = "Color"
)

// Columns - порядок колонок при экспорте.
var Columns = []string{ColDay, ColKind, ColSubject, ColGrade, ColLetter, ColName, ColStart, ColEnd, ColColor}

var dayLabels = map[Day]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
}

var kindLabels = map[Kind]string{
	KindClass:   "Clase",
	KindRecess:  "Recreo",
	KindDuty:    "Guardia",
	KindMeeting: "Reunión",
	KindFree:    "Libre",
	KindOther:   "Otro",
}

// DayByLabel возвращает день недели по подписи из файла.
func DayByLabel(label string) (Day, bool) {
	for d, l := range dayLabels {
		if l == label {
			return d, true
		}
	}
	return 0, false
}

// KindByLabel возвращает тип записи по подписи из файла.
func KindByLabel(label string) (Kind, bool) {
	for k, l := range kindLabels {
		if l == label {
			return k, true
		}
	}
	return "", false
}

// DayLabel возвращает подпись дня для экспорта.
func DayLabel(d Day) string { return dayLabels[d] }

// KindLabel возвращает подпись типа для экспорта.
func KindLabel(k Kind) string { return kindLabels[k] }

// Row - одна строка табличного файла, ключи - названия колонок.
type Row map[string]string

// GroupKeyOf собирает внешний ключ группы из трёх колонок файла.
func GroupKeyOf(subject, grade, letter string) string {
	return subject + "-" + grade + "-" + letter
}

// SplitGroupKey разбирает ключ группы обратно на предмет, курс и литеру.
func SplitGroupKey(key string) (subject, grade, letter string, ok bool) {
	parts := strings.Split(key, "-")
	if len(parts) < 3 {
		return "", "", "", false
	}
	// Предмет может содержать дефисы, курс и литера - последние две части.
	subject = strings.Join(parts[:len(parts)-2], "-")
	grade = parts[len(parts)-2]
	letter = parts[len(parts)-1]
	return subject, grade, letter, subject != "" && grade != "" && letter != ""
}

// ExportRows сериализует записи в строки табличного файла. Уроки, чья
// группа уже удалена из справочника, молча отбрасываются - это
// единственное намеренно «проглатываемое» условие во всём ядре. Если после
// отбрасывания не осталось ни одной строки, экспортировать нечего.
func ExportRows(entries []*Entry, dir GroupDirectory) ([]Row, error) {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			ColDay:   DayLabel(e.Day),
			ColKind:  KindLabel(e.Kind),
			ColStart: e.Start,
			ColEnd:   e.End,
		}
		switch e.Kind {
		case KindClass:
			if e.Class == nil {
				continue
			}
			if dir != nil && !dir.GroupExists(e.Class.GroupKey) {
				continue
			}
			subject, grade, letter, ok := SplitGroupKey(e.Class.GroupKey)
			if !ok {
				continue
			}
			row[ColSubject] = subject
			row[ColGrade] = grade
			row[ColLetter] = letter
			if dir != nil {
				row[ColColor] = dir.GroupColor(e.Class.GroupKey)
			}
		case KindDuty:
			if e.Duty == nil {
				continue
			}
			row[ColName] = e.Duty.Name
			row[ColColor] = e.Duty.Color
		default:
			if e.Generic == nil {
				continue
			}
			row[ColName] = e.Generic.Name
			row[ColColor] = e.Generic.Color
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	return rows, nil
}

// ImportRows разбирает и целиком проверяет строки табличного файла.
// Любая ошибка (пропущенное поле, нераспознанная подпись, несуществующая
// группа, пересечение интервалов) отклоняет весь импорт: живое хранилище
// не изменяется, пока весь набор-кандидат не окажется корректным.
// Номера строк в ошибках считаются по файлу, с учётом строки заголовка.
func ImportRows(rows []Row, dir GroupDirectory) ([]*Entry, error) {
	entries := make([]*Entry, 0, len(rows))
	for i, row := range rows {
		line := i + 2

		day, ok := DayByLabel(row[ColDay])
		if row[ColDay] == "" {
			return nil, fmt.Errorf("%w: строка %d, колонка %q", ErrMissingField, line, ColDay)
		}
		if !ok {
			return nil, fmt.Errorf("%w: строка %d, день недели %q", ErrUnknownLabel, line, row[ColDay])
		}

		kind, ok := KindByLabel(row[ColKind])
		if row[ColKind] == "" {
			return nil, fmt.Errorf("%w: строка %d, колонка %q", ErrMissingField, line, ColKind)
		}
		if !ok {
			return nil, fmt.Errorf("%w: строка %d, тип %q", ErrUnknownLabel, line, row[ColKind])
		}

		if row[ColStart] == "" {
			return nil, fmt.Errorf("%w: строка %d, колонка %q", ErrMissingField, line, ColStart)
		}
		if row[ColEnd] == "" {
			return nil, fmt.Errorf("%w: строка %d, колонка %q", ErrMissingField, line, ColEnd)
		}

		e := &Entry{
			ID:    uuid.NewString(),
			Day:   day,
			Start: row[ColStart],
			End:   row[ColEnd],
			Kind:  kind,
		}

		switch kind {
		case KindClass:
			subject, grade, letter := row[ColSubject], row[ColGrade], row[ColLetter]
			if subject == "" || grade == "" || letter == "" {
				return nil, fmt.Errorf("%w: строка %d, для типа %q нужны колонки %q, %q и %q",
					ErrMissingField, line, row[ColKind], ColSubject, ColGrade, ColLetter)
			}
			key := GroupKeyOf(subject, grade, letter)
			if dir != nil && !dir.GroupExists(key) {
				return nil, fmt.Errorf("%w: строка %d, группа %s (создайте её перед импортом)",
					ErrUnknownGroup, line, key)
			}
			e.Class = &ClassFields{GroupKey: key}
		case KindDuty:
			if row[ColName] == "" {
				return nil, fmt.Errorf("%w: строка %d, колонка %q", ErrMissingField, line, ColName)
			}
			e.Duty = &DutyFields{Name: row[ColName], Color: row[ColColor]}
		default:
			if row[ColName] == "" {
				return nil, fmt.Errorf("%w: строка %d, колонка %q", ErrMissingField, line, ColName)
			}
			e.Generic = &GenericFields{Name: row[ColName], Color: row[ColColor]}
		}
		entries = append(entries, e)
	}

	// Полная попарная проверка пересечений всего набора до какой-либо записи.
	if err := ValidateSet(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
