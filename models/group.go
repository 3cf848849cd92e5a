// cuaderno-crm/models/group.go
package models

import "gorm.io/gorm"

// Group - учебная группа: предмет, курс и литера (например, Math / 3ESO / A).
// Расписание ссылается на группу строковым ключом "Предмет-Курс-Литера".
type Group struct {
	gorm.Model
	Subject        string    `json:"subject" gorm:"not null;uniqueIndex:idx_group_key"`
	Grade          string    `json:"grade" gorm:"not null;uniqueIndex:idx_group_key"`
	Letter         string    `json:"letter" gorm:"not null;uniqueIndex:idx_group_key"`
	Color          string    `json:"color"`
	GradingFormula string    `json:"grading_formula"` // выражение для итоговой оценки, например "examenes*0.6 + tareas*0.4"
	Students       []Student `json:"students,omitempty"`
}

// Key возвращает внешний ключ группы, которым пользуется расписание.
func (g *Group) Key() string {
	return g.Subject + "-" + g.Grade + "-" + g.Letter
}

// Label возвращает короткое отображаемое название для сетки расписания.
func (g *Group) Label() string {
	return g.Subject + " " + g.Grade + g.Letter
}
