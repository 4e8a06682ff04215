package models

import "time"

// Status meja mengikuti sesi yang menempelinya.
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"uniqueIndex;not null" json:"table_number"`
	Capacity    int       `gorm:"not null;default:2" json:"capacity"`
	Status      string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
