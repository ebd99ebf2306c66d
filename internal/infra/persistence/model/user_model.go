package model

import "time"

// UserModel mirrors the 'users' table. The identifier is a store-assigned
// autoincrement integer; email carries the authoritative unique constraint.
type UserModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	FirstName      string `gorm:"type:varchar(100);not null"`
	LastName       string `gorm:"type:varchar(100);not null"`
	Email          string `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash   string `gorm:"type:varchar(255);not null"`
	Phone          string `gorm:"type:varchar(30)"`
	ClinicName     string `gorm:"type:varchar(100)"`
	Specialization string `gorm:"type:varchar(100)"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
