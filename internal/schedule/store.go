// cuaderno-crm/internal/schedule/store.go
package schedule

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Persister - внешний адаптер долговременного хранения. Ядро не знает,
// куда и как сохраняется набор записей; запись считается надёжной и
// выполняется синхронно после каждой мутации.
type Persister interface {
	Load() ([]*Entry, error)
	Save([]*Entry) error
}

// Store - авторитетная коллекция записей расписания в памяти.
// Все мутации проходят проверку пересечений до изменения данных;
// частичное применение пакетных операций невозможно.
type Store struct {
	mu      sync.RWMutex
	entries []*Entry
	persist Persister
	groups  GroupDirectory
}

// NewStore создаёт хранилище и загружает записи из адаптера.
// persist и groups могут быть nil (в тестах).
func NewStore(persist Persister, groups GroupDirectory) (*Store, error) {
	s := &Store{persist: persist, groups: groups}
	if persist != nil {
		loaded, err := persist.Load()
		if err != nil {
			return nil, fmt.Errorf("загрузка расписания: %w", err)
		}
		s.entries = loaded
	}
	return s, nil
}

// Entries возвращает копию всех записей в порядке хранения.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Get возвращает копию записи по идентификатору.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return nil, false
}

// Add проверяет и добавляет одну запись, назначая ей новый идентификатор.
func (s *Store) Add(e *Entry) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !e.Day.Valid() {
		return nil, fmt.Errorf("%w: день недели %d", ErrUnknownLabel, e.Day)
	}
	if err := s.checkFields(e); err != nil {
		return nil, err
	}
	if err := CheckOverlap(e.Day, e.Start, e.End, s.entries, ""); err != nil {
		return nil, err
	}

	added := e.Clone()
	added.ID = uuid.NewString()
	s.entries = append(s.entries, added)
	if err := s.flush(); err != nil {
		return nil, err
	}
	return added.Clone(), nil
}

// AddForDays добавляет запись сразу на несколько дней недели (одна отправка
// формы может отмечать несколько чекбоксов). Сначала проверяются все дни,
// и только потом изменяется хранилище: если хотя бы один день не прошёл
// проверку, не добавляется ничего. Повторно указанный день считается один
// раз: иначе пакет конфликтовал бы сам с собой.
func (s *Store) AddForDays(base *Entry, days []Day) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(days) == 0 {
		return nil, fmt.Errorf("%w: не выбран ни один день недели", ErrMissingField)
	}
	if err := s.checkFields(base); err != nil {
		return nil, err
	}
	seen := make(map[Day]struct{}, len(days))
	unique := make([]Day, 0, len(days))
	for _, day := range days {
		if !day.Valid() {
			return nil, fmt.Errorf("%w: день недели %d", ErrUnknownLabel, day)
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		if err := CheckOverlap(day, base.Start, base.End, s.entries, ""); err != nil {
			return nil, err
		}
		unique = append(unique, day)
	}

	added := make([]*Entry, 0, len(unique))
	for _, day := range unique {
		e := base.Clone()
		e.ID = uuid.NewString()
		e.Day = day
		s.entries = append(s.entries, e)
		added = append(added, e.Clone())
	}
	if err := s.flush(); err != nil {
		return nil, err
	}
	return added, nil
}

// Update изменяет поля расписания существующей записи. День недели при
// редактировании не меняется (форма редактирования держит запись на её
// исходном дне), запись исключается из проверки пересечений с самой собой,
// а накопленные заметки сохраняются, пока не изменился тип записи.
func (s *Store) Update(id string, upd *Entry) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	existing := s.entries[idx]

	if err := s.checkFields(upd); err != nil {
		return nil, err
	}
	if err := CheckOverlap(existing.Day, upd.Start, upd.End, s.entries, id); err != nil {
		return nil, err
	}

	next := upd.Clone()
	next.ID = existing.ID
	next.Day = existing.Day
	if next.Kind == existing.Kind {
		switch next.Kind {
		case KindClass:
			next.Class.Notes = cloneNotes(existing.Class.Notes)
		case KindDuty:
			next.Duty.Notes = cloneNotes(existing.Duty.Notes)
		default:
			next.Generic.Notes = cloneNotes(existing.Generic.Notes)
		}
	}
	s.entries[idx] = next
	if err := s.flush(); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// Remove безусловно удаляет запись.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return s.flush()
}

// RemoveByGroupKey удаляет все уроки, ссылающиеся на группу. Вызывается
// при удалении группы: ссылочная целостность не поддерживается постоянно,
// осиротевшие уроки вычищаются именно здесь.
func (s *Store) RemoveByGroupKey(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.Kind == KindClass && e.Class != nil && e.Class.GroupKey == key {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.flush()
}

// RekeyGroup переключает уроки со старого ключа группы на новый.
// Используется при переименовании группы, чтобы уроки не осиротели.
func (s *Store) RekeyGroup(oldKey, newKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, e := range s.entries {
		if e.Kind == KindClass && e.Class != nil && e.Class.GroupKey == oldKey {
			e.Class.GroupKey = newKey
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flush()
}

// ReplaceAll атомарно заменяет весь набор записей. Вызывается импортом,
// который уже прогнал полный набор через ValidateSet и проверку групп.
func (s *Store) ReplaceAll(entries []*Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Clone())
	}
	s.entries = next
	return s.flush()
}

// SetClassNote сохраняет или удаляет заметку урока на дату. Полностью
// пустая заметка удаляет ключ даты: пустые объекты-заглушки не хранятся.
func (s *Store) SetClassNote(id, date string, note ClassNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	e := s.entries[idx]
	if e.Kind != KindClass || e.Class == nil {
		return fmt.Errorf("%w: запись %s не является уроком", ErrUnknownLabel, id)
	}
	if note.IsEmpty() {
		delete(e.Class.Notes, date)
	} else {
		if e.Class.Notes == nil {
			e.Class.Notes = make(map[string]ClassNote)
		}
		e.Class.Notes[date] = note
	}
	return s.flush()
}

// SetDutyNote - аналог SetClassNote для дежурств.
func (s *Store) SetDutyNote(id, date string, note DutyNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	e := s.entries[idx]
	if e.Kind != KindDuty || e.Duty == nil {
		return fmt.Errorf("%w: запись %s не является дежурством", ErrUnknownLabel, id)
	}
	if note.IsEmpty() {
		delete(e.Duty.Notes, date)
	} else {
		if e.Duty.Notes == nil {
			e.Duty.Notes = make(map[string]DutyNote)
		}
		e.Duty.Notes[date] = note
	}
	return s.flush()
}

// SetGenericNote - аналог SetClassNote для остальных типов записей.
func (s *Store) SetGenericNote(id, date string, note GenericNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	e := s.entries[idx]
	if e.Kind == KindClass || e.Kind == KindDuty || e.Generic == nil {
		return fmt.Errorf("%w: у записи %s нет общих заметок", ErrUnknownLabel, id)
	}
	if note.IsEmpty() {
		delete(e.Generic.Notes, date)
	} else {
		if e.Generic.Notes == nil {
			e.Generic.Notes = make(map[string]GenericNote)
		}
		e.Generic.Notes[date] = note
	}
	return s.flush()
}

// checkFields проверяет согласованность общих и вариантных полей записи.
func (s *Store) checkFields(e *Entry) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: тип записи %q", ErrUnknownLabel, e.Kind)
	}
	switch e.Kind {
	case KindClass:
		if e.Class == nil || e.Class.GroupKey == "" {
			return fmt.Errorf("%w: для урока требуется группа", ErrMissingField)
		}
		if s.groups != nil && !s.groups.GroupExists(e.Class.GroupKey) {
			return fmt.Errorf("%w: %s", ErrUnknownGroup, e.Class.GroupKey)
		}
	case KindDuty:
		if e.Duty == nil || e.Duty.Name == "" {
			return fmt.Errorf("%w: для дежурства требуется название", ErrMissingField)
		}
	default:
		if e.Generic == nil || e.Generic.Name == "" {
			return fmt.Errorf("%w: требуется название записи", ErrMissingField)
		}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// flush синхронно сохраняет текущий набор через адаптер.
func (s *Store) flush() error {
	if s.persist == nil {
		return nil
	}
	snapshot := make([]*Entry, len(s.entries))
	copy(snapshot, s.entries)
	if err := s.persist.Save(snapshot); err != nil {
		return fmt.Errorf("сохранение расписания: %w", err)
	}
	return nil
}
