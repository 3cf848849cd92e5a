// cuaderno-crm/models/schedule.go
package models

import "gorm.io/gorm"

// ScheduleRecord - долговременное хранилище недельного расписания.
// Весь набор записей сериализуется в одну JSON-колонку: структура записей
// вариантная (урок/дежурство/прочее) и меняется чаще, чем удобно держать
// в реляционной схеме. В таблице живёт одна строка.
type ScheduleRecord struct {
	gorm.Model
	Data string `gorm:"type:json" json:"data"`
}

// ViewSettings - настройки видимого окна сетки (видимые часы).
// Одна строка на инсталляцию; некорректные значения отклоняются на входе,
// поэтому в базе всегда лежит валидное окно.
type ViewSettings struct {
	gorm.Model
	DisplayStart string `json:"display_start" gorm:"size:5;default:'08:00'"`
	DisplayEnd   string `json:"display_end" gorm:"size:5;default:'21:00'"`
}
