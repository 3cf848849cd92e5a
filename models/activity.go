// cuaderno-crm/models/activity.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity - оцениваемая работа группы: контрольная, домашнее задание и т.п.
// Category участвует в формуле итоговой оценки группы как имя переменной.
type Activity struct {
	gorm.Model
	GroupID  uint      `json:"group_id" gorm:"not null;index"`
	Title    string    `json:"title" gorm:"not null"`
	Category string    `json:"category" gorm:"not null"` // examenes, tareas, actitud...
	Date     time.Time `json:"date"`
	Weight   float64   `json:"weight" gorm:"default:1"`
	MaxScore float64   `json:"max_score" gorm:"default:10"`
}

// Mark - оценка ученика за конкретную работу.
type Mark struct {
	gorm.Model
	ActivityID uint    `json:"activity_id" gorm:"not null;uniqueIndex:idx_mark"`
	StudentID  uint    `json:"student_id" gorm:"not null;uniqueIndex:idx_mark"`
	Score      float64 `json:"score"`
	Comment    string  `json:"comment"`
}
