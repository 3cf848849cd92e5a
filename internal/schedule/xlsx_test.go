// cuaderno-crm/internal/schedule/xlsx_test.go
package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitGroupKey(t *testing.T) {
	subject, grade, letter, ok := SplitGroupKey("Math-3ESO-A")
	require.True(t, ok)
	assert.Equal(t, "Math", subject)
	assert.Equal(t, "3ESO", grade)
	assert.Equal(t, "A", letter)

	// Дефис в названии предмета достаётся предмету, а не курсу.
	subject, grade, letter, ok = SplitGroupKey("Lengua-Extra-2BACH-C")
	require.True(t, ok)
	assert.Equal(t, "Lengua-Extra", subject)
	assert.Equal(t, "2BACH", grade)
	assert.Equal(t, "C", letter)

	_, _, _, ok = SplitGroupKey("solo-dos")
	assert.False(t, ok)
}

func TestExportRows(t *testing.T) {
	entries := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		dutyEntry("b", Wednesday, "11:00", "12:00", "Patio"),
		genericEntry("c", Friday, KindMeeting, "12:00", "13:00", "Claustro"),
	}

	rows, err := ExportRows(entries, newFakeDirectory("Math-3ESO-A"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Lunes", rows[0][ColDay])
	assert.Equal(t, "Clase", rows[0][ColKind])
	assert.Equal(t, "Math", rows[0][ColSubject])
	assert.Equal(t, "3ESO", rows[0][ColGrade])
	assert.Equal(t, "A", rows[0][ColLetter])
	assert.Equal(t, "09:00", rows[0][ColStart])
	assert.Equal(t, "10:00", rows[0][ColEnd])

	assert.Equal(t, "Miércoles", rows[1][ColDay])
	assert.Equal(t, "Guardia", rows[1][ColKind])
	assert.Equal(t, "Patio", rows[1][ColName])

	assert.Equal(t, "Viernes", rows[2][ColDay])
	assert.Equal(t, "Reunión", rows[2][ColKind])
}

func TestExportRowsDropsOrphanClasses(t *testing.T) {
	entries := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		classEntry("b", Tuesday, "09:00", "10:00", "Fis-2ESO-C"), // группа удалена
	}

	// Урок без группы молча пропускается - это не ошибка экспорта.
	rows, err := ExportRows(entries, newFakeDirectory("Math-3ESO-A"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Math", rows[0][ColSubject])

	// Если после отбрасывания не осталось ничего - экспортировать нечего.
	_, err = ExportRows(entries[1:], newFakeDirectory("Math-3ESO-A"))
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestImportRows(t *testing.T) {
	rows := []Row{
		{ColDay: "Lunes", ColKind: "Clase", ColSubject: "Math", ColGrade: "3ESO", ColLetter: "A", ColStart: "09:00", ColEnd: "10:00"},
		{ColDay: "Martes", ColKind: "Guardia", ColName: "Patio", ColStart: "10:00", ColEnd: "11:00", ColColor: "#f39c12"},
		{ColDay: "Viernes", ColKind: "Libre", ColName: "Hueco", ColStart: "12:00", ColEnd: "13:00"},
	}

	entries, err := ImportRows(rows, newFakeDirectory("Math-3ESO-A"))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, Monday, entries[0].Day)
	assert.Equal(t, KindClass, entries[0].Kind)
	require.NotNil(t, entries[0].Class)
	assert.Equal(t, "Math-3ESO-A", entries[0].Class.GroupKey)

	assert.Equal(t, KindDuty, entries[1].Kind)
	assert.Equal(t, "Patio", entries[1].Duty.Name)
	assert.Equal(t, "#f39c12", entries[1].Duty.Color)

	assert.Equal(t, KindFree, entries[2].Kind)
	require.NotNil(t, entries[2].Generic)
	assert.Equal(t, "Hueco", entries[2].Generic.Name)
}

func TestImportRowsErrors(t *testing.T) {
	dir := newFakeDirectory("Math-3ESO-A")
	valid := Row{ColDay: "Lunes", ColKind: "Clase", ColSubject: "Math", ColGrade: "3ESO", ColLetter: "A", ColStart: "09:00", ColEnd: "10:00"}

	tests := []struct {
		name string
		row  Row
		want error
	}{
		{"без дня недели", Row{ColKind: "Guardia", ColName: "Patio", ColStart: "09:00", ColEnd: "10:00"}, ErrMissingField},
		{"неизвестный день", Row{ColDay: "Sábado", ColKind: "Guardia", ColName: "Patio", ColStart: "09:00", ColEnd: "10:00"}, ErrUnknownLabel},
		{"неизвестный тип", Row{ColDay: "Lunes", ColKind: "Siesta", ColName: "x", ColStart: "09:00", ColEnd: "10:00"}, ErrUnknownLabel},
		{"без времени начала", Row{ColDay: "Lunes", ColKind: "Guardia", ColName: "Patio", ColEnd: "10:00"}, ErrMissingField},
		{"урок без группы", Row{ColDay: "Lunes", ColKind: "Clase", ColSubject: "Math", ColStart: "11:00", ColEnd: "12:00"}, ErrMissingField},
		{"дежурство без названия", Row{ColDay: "Lunes", ColKind: "Guardia", ColStart: "11:00", ColEnd: "12:00"}, ErrMissingField},
		{"перевёрнутый интервал", Row{ColDay: "Lunes", ColKind: "Guardia", ColName: "Patio", ColStart: "12:00", ColEnd: "11:00"}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportRows([]Row{valid, tt.row}, dir)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Сценарий из требований: обе строки ссылаются на несуществующую группу -
// импорт отклоняется целиком ещё на стадии проверки.
func TestImportRowsUnknownGroup(t *testing.T) {
	rows := []Row{
		{ColDay: "Lunes", ColKind: "Clase", ColSubject: "Math", ColGrade: "3ESO", ColLetter: "A", ColStart: "09:00", ColEnd: "10:00"},
		{ColDay: "Martes", ColKind: "Clase", ColSubject: "Math", ColGrade: "3ESO", ColLetter: "A", ColStart: "09:00", ColEnd: "10:00"},
	}
	_, err := ImportRows(rows, newFakeDirectory()) // справочник пуст
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

// Весь набор-кандидат проверяется попарно до какой-либо записи: конфликт
// последней строки с первой отклоняет весь файл.
func TestImportRowsWholeSetOverlap(t *testing.T) {
	rows := []Row{
		{ColDay: "Lunes", ColKind: "Guardia", ColName: "Patio", ColStart: "09:00", ColEnd: "10:00"},
		{ColDay: "Martes", ColKind: "Guardia", ColName: "Pasillo", ColStart: "09:00", ColEnd: "10:00"},
		{ColDay: "Lunes", ColKind: "Guardia", ColName: "Biblioteca", ColStart: "09:30", ColEnd: "10:30"},
	}
	var conflict *ConflictError
	_, err := ImportRows(rows, nil)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, Monday, conflict.Day)
}

// Экспорт и последующий импорт дают эквивалентный набор записей.
func TestRoundTrip(t *testing.T) {
	dir := newFakeDirectory("Math-3ESO-A", "Bio-1BACH-B")
	original := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		classEntry("b", Monday, "10:00", "11:00", "Bio-1BACH-B"),
		dutyEntry("c", Wednesday, "11:00", "12:00", "Patio"),
		genericEntry("d", Friday, KindRecess, "10:30", "11:00", "Recreo"),
	}

	rows, err := ExportRows(original, dir)
	require.NoError(t, err)
	imported, err := ImportRows(rows, dir)
	require.NoError(t, err)
	require.Len(t, imported, len(original))

	for i, want := range original {
		got := imported[i]
		assert.NotEqual(t, want.ID, got.ID, "идентификаторы назначаются заново")
		assert.Equal(t, want.Day, got.Day)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Start, got.Start)
		assert.Equal(t, want.End, got.End)
		switch want.Kind {
		case KindClass:
			assert.Equal(t, want.Class.GroupKey, got.Class.GroupKey)
		case KindDuty:
			assert.Equal(t, want.Duty.Name, got.Duty.Name)
		default:
			assert.Equal(t, want.Generic.Name, got.Generic.Name)
		}
	}
}

// Явный не-круговой случай: урок удалённой группы пропадает при экспорте
// и потому отсутствует после круга экспорт-импорт.
func TestRoundTripDroppedGroup(t *testing.T) {
	dir := newFakeDirectory("Math-3ESO-A")
	original := []*Entry{
		classEntry("a", Monday, "09:00", "10:00", "Math-3ESO-A"),
		classEntry("b", Tuesday, "09:00", "10:00", "Fis-2ESO-C"), // группы уже нет
	}

	rows, err := ExportRows(original, dir)
	require.NoError(t, err)
	imported, err := ImportRows(rows, dir)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "Math-3ESO-A", imported[0].Class.GroupKey)
}
