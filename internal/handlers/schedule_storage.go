// cuaderno-crm/internal/handlers/schedule_storage.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"cuaderno-crm/config"
	"cuaderno-crm/internal/schedule"
	"cuaderno-crm/models"

	"gorm.io/gorm"
)

// ScheduleStore - живое хранилище расписания, инициализируется при старте.
var ScheduleStore *schedule.Store

// InitScheduleStore загружает расписание из БД и поднимает хранилище.
func InitScheduleStore() error {
	store, err := schedule.NewStore(
		&dbPersister{db: config.DB},
		&dbGroupDirectory{db: config.DB},
	)
	if err != nil {
		return err
	}
	ScheduleStore = store
	slog.Info("Хранилище расписания загружено", "entries", len(store.Entries()))
	return nil
}

// dbPersister хранит весь набор записей расписания в одной JSON-колонке
// (таблица schedule_records, одна строка).
type dbPersister struct {
	db *gorm.DB
}

func (p *dbPersister) Load() ([]*schedule.Entry, error) {
	var record models.ScheduleRecord
	err := p.db.First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	var entries []*schedule.Entry
	if err := json.Unmarshal([]byte(record.Data), &entries); err != nil {
		return nil, fmt.Errorf("повреждённые данные расписания: %w", err)
	}
	return entries, nil
}

func (p *dbPersister) Save(entries []*schedule.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	var record models.ScheduleRecord
	err = p.db.First(&record).Error
	switch {
	case err == nil:
		record.Data = string(data)
		return p.db.Save(&record).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return p.db.Create(&models.ScheduleRecord{Data: string(data)}).Error
	default:
		return err
	}
}

// dbGroupDirectory - справочник групп для ядра расписания поверх таблицы groups.
type dbGroupDirectory struct {
	db *gorm.DB
}

func (d *dbGroupDirectory) groupByKey(key string) (*models.Group, bool) {
	subject, grade, letter, ok := schedule.SplitGroupKey(key)
	if !ok {
		return nil, false
	}
	var group models.Group
	err := d.db.Where("subject = ? AND grade = ? AND letter = ?", subject, grade, letter).
		First(&group).Error
	if err != nil {
		return nil, false
	}
	return &group, true
}

func (d *dbGroupDirectory) GroupExists(key string) bool {
	_, ok := d.groupByKey(key)
	return ok
}

func (d *dbGroupDirectory) GroupLabel(key string) string {
	group, ok := d.groupByKey(key)
	if !ok {
		return ""
	}
	return group.Label()
}

func (d *dbGroupDirectory) GroupColor(key string) string {
	group, ok := d.groupByKey(key)
	if !ok {
		return ""
	}
	return group.Color
}
