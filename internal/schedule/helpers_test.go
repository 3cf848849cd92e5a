// cuaderno-crm/internal/schedule/helpers_test.go
package schedule

// Тестовые дублёры внешних коллабораторов ядра.

// memPersister хранит набор в памяти и считает количество сохранений.
type memPersister struct {
	entries []*Entry
	saves   int
	failOn  error // если задано, Save возвращает эту ошибку
}

func (p *memPersister) Load() ([]*Entry, error) {
	return p.entries, nil
}

func (p *memPersister) Save(entries []*Entry) error {
	if p.failOn != nil {
		return p.failOn
	}
	p.entries = entries
	p.saves++
	return nil
}

// fakeDirectory - справочник групп на карте.
type fakeDirectory struct {
	groups map[string]struct{ label, color string }
}

func newFakeDirectory(keys ...string) *fakeDirectory {
	d := &fakeDirectory{groups: make(map[string]struct{ label, color string })}
	for _, k := range keys {
		d.groups[k] = struct{ label, color string }{label: k, color: "#3498db"}
	}
	return d
}

func (d *fakeDirectory) GroupExists(key string) bool {
	_, ok := d.groups[key]
	return ok
}

func (d *fakeDirectory) GroupLabel(key string) string {
	return d.groups[key].label
}

func (d *fakeDirectory) GroupColor(key string) string {
	return d.groups[key].color
}

// classEntry - короткий конструктор урока для тестов.
func classEntry(id string, day Day, start, end, groupKey string) *Entry {
	return &Entry{
		ID:    id,
		Day:   day,
		Start: start,
		End:   end,
		Kind:  KindClass,
		Class: &ClassFields{GroupKey: groupKey},
	}
}

// dutyEntry - короткий конструктор дежурства для тестов.
func dutyEntry(id string, day Day, start, end, name string) *Entry {
	return &Entry{
		ID:    id,
		Day:   day,
		Start: start,
		End:   end,
		Kind:  KindDuty,
		Duty:  &DutyFields{Name: name, Color: "#f39c12"},
	}
}

// genericEntry - конструктор записи произвольного обычного типа.
func genericEntry(id string, day Day, kind Kind, start, end, name string) *Entry {
	return &Entry{
		ID:      id,
		Day:     day,
		Start:   start,
		End:     end,
		Kind:    kind,
		Generic: &GenericFields{Name: name, Color: "#28a745"},
	}
}
