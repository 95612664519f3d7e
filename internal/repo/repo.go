package repo

import (
	"gorm.io/gorm"
)

// GormRepo is the single data-access point for users and notes.
type GormRepo struct {
	DB *gorm.DB
}
