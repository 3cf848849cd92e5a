// cuaderno-crm/internal/schedule/entry.go
package schedule

// Day - учебный день недели. Суббота и воскресенье в расписании не используются.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Valid сообщает, входит ли день в учебную неделю (понедельник-пятница).
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

// Kind - тип записи расписания.
type Kind string

const (
	KindClass   Kind = "class"
	KindRecess  Kind = "recess"
	KindDuty    Kind = "duty"
	KindMeeting Kind = "meeting"
	KindFree    Kind = "free"
	KindOther   Kind = "other"
)

// Valid сообщает, является ли значение известным типом записи.
func (k Kind) Valid() bool {
	switch k {
	case KindClass, KindRecess, KindDuty, KindMeeting, KindFree, KindOther:
		return true
	}
	return false
}

// ClassNote - ежедневная заметка к уроку. Ключ карты - дата "2006-01-02".
type ClassNote struct {
	Contents  string `json:"contents"`
	Tasks     string `json:"tasks"`
	Pending   string `json:"pending"`
	Incidents string `json:"incidents"`
}

// IsEmpty сообщает, что все поля заметки пустые. Пустые заметки не хранятся.
func (n ClassNote) IsEmpty() bool {
	return n.Contents == "" && n.Tasks == "" && n.Pending == "" && n.Incidents == ""
}

// DutyNote - ежедневная заметка к дежурству (замещению).
type DutyNote struct {
	Group         string `json:"group"`
	AbsentTeacher string `json:"absent_teacher"`
	Summary       string `json:"summary"`
	Pending       string `json:"pending"`
	Incidents     string `json:"incidents"`
}

func (n DutyNote) IsEmpty() bool {
	return n.Group == "" && n.AbsentTeacher == "" && n.Summary == "" && n.Pending == "" && n.Incidents == ""
}

// GenericNote - ежедневная заметка для остальных типов записей.
type GenericNote struct {
	Summary   string `json:"summary"`
	Pending   string `json:"pending"`
	Incidents string `json:"incidents"`
}

func (n GenericNote) IsEmpty() bool {
	return n.Summary == "" && n.Pending == "" && n.Incidents == ""
}

// ClassFields - данные записи типа "урок". Группа задаётся внешним ключом
// вида "Asignatura-Curso-Grupo" (например, "Math-3ESO-A").
type ClassFields struct {
	GroupKey string               `json:"group_key"`
	Notes    map[string]ClassNote `json:"daily_notes,omitempty"`
}

// DutyFields - данные записи типа "дежурство".
type DutyFields struct {
	Name  string              `json:"name"`
	Color string              `json:"color"`
	Notes map[string]DutyNote `json:"duty_notes,omitempty"`
}

// GenericFields - данные записей остальных типов (перемена, собрание, окно, другое).
type GenericFields struct {
	Name  string                 `json:"name"`
	Color string                 `json:"color"`
	Notes map[string]GenericNote `json:"generic_notes,omitempty"`
}

// Entry - запись недельного расписания. Общие поля плюс ровно один
// вариантный блок, соответствующий Kind. Поля других вариантов всегда nil,
// чтобы невозможные комбинации не существовали в данных.
type Entry struct {
	ID    string `json:"id"`
	Day   Day    `json:"day_of_week"`
	Start string `json:"start_time"` // "HH:MM", 24 часа
	End   string `json:"end_time"`
	Kind  Kind   `json:"type"`

	Class   *ClassFields   `json:"class,omitempty"`
	Duty    *DutyFields    `json:"duty,omitempty"`
	Generic *GenericFields `json:"generic,omitempty"`
}

// GroupDirectory - внешний справочник учебных групп. Ядро расписания группы
// не изменяет, только читает существование, название и цвет.
type GroupDirectory interface {
	GroupExists(key string) bool
	GroupLabel(key string) string
	GroupColor(key string) string
}

// DisplayName возвращает человекочитаемое название записи для сетки и сообщений.
func (e *Entry) DisplayName(dir GroupDirectory) string {
	switch e.Kind {
	case KindClass:
		if e.Class == nil {
			return ""
		}
		if dir != nil {
			if label := dir.GroupLabel(e.Class.GroupKey); label != "" {
				return label
			}
		}
		return e.Class.GroupKey
	case KindDuty:
		if e.Duty == nil {
			return ""
		}
		return e.Duty.Name
	default:
		if e.Generic == nil {
			return ""
		}
		return e.Generic.Name
	}
}

// DisplayColor возвращает цвет записи; для уроков цвет берётся из справочника групп.
func (e *Entry) DisplayColor(dir GroupDirectory) string {
	switch e.Kind {
	case KindClass:
		if e.Class != nil && dir != nil {
			return dir.GroupColor(e.Class.GroupKey)
		}
		return ""
	case KindDuty:
		if e.Duty == nil {
			return ""
		}
		return e.Duty.Color
	default:
		if e.Generic == nil {
			return ""
		}
		return e.Generic.Color
	}
}

// HasNoteOn сообщает, есть ли у записи заметка на указанную дату.
// Карты заметок разреженные: ключ существует только у непустой заметки,
// поэтому достаточно проверить наличие ключа.
func (e *Entry) HasNoteOn(date string) bool {
	switch e.Kind {
	case KindClass:
		if e.Class == nil {
			return false
		}
		_, ok := e.Class.Notes[date]
		return ok
	case KindDuty:
		if e.Duty == nil {
			return false
		}
		_, ok := e.Duty.Notes[date]
		return ok
	default:
		if e.Generic == nil {
			return false
		}
		_, ok := e.Generic.Notes[date]
		return ok
	}
}

// Clone возвращает глубокую копию записи, чтобы хранилище не отдавало
// наружу свои внутренние структуры.
func (e *Entry) Clone() *Entry {
	cp := *e
	if e.Class != nil {
		cf := *e.Class
		cf.Notes = cloneNotes(e.Class.Notes)
		cp.Class = &cf
	}
	if e.Duty != nil {
		df := *e.Duty
		df.Notes = cloneNotes(e.Duty.Notes)
		cp.Duty = &df
	}
	if e.Generic != nil {
		gf := *e.Generic
		gf.Notes = cloneNotes(e.Generic.Notes)
		cp.Generic = &gf
	}
	return &cp
}

func cloneNotes[N any](src map[string]N) map[string]N {
	if src == nil {
		return nil
	}
	dst := make(map[string]N, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
