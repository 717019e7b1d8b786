package models

import (
	"time"
)

// Student stores a student record with its numeric grade on the 0-20 scale.
type Student struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Grade     float64   `gorm:"not null" json:"grade"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
