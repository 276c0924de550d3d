package entity

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

const (
	MinBirthYear = 1900
	MaxBirthYear = 2025
)

// User is a directory entry. CreatedByID is a plain nullable column, not a
// foreign key: a deleted creator leaves a dangling id that reads back as
// "no creator".
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	BirthYear   int       `gorm:"not null;check:chk_users_birth_year,birth_year BETWEEN 1900 AND 2025" json:"birth_year"`
	Gender      Gender    `gorm:"size:16;not null" json:"gender"`
	AvatarPath  *string   `gorm:"type:text" json:"avatar_path"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	CreatedByID *uint     `gorm:"index" json:"-"`
	IsAdmin     bool      `gorm:"not null" json:"is_admin"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Tokens      []Token   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
