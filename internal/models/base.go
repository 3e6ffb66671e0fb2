package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel mirrors gorm.Model but serializes cleanly in API responses.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
