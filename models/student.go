// cuaderno-crm/models/student.go
package models

import "gorm.io/gorm"

// Student - ученик, привязанный к учебной группе.
type Student struct {
	gorm.Model
	GroupID   uint   `json:"group_id" gorm:"not null;index"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	Comment   string `json:"comment"`
}
