// cuaderno-crm/models/user.go
package models

import "gorm.io/gorm"

// User - учётная запись учителя. Журнал персональный, поэтому обычно
// в таблице одна запись, создаваемая при первом запуске.
type User struct {
	gorm.Model
	Login    string `json:"login" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt-хэш
	FullName string `json:"full_name"`
}
