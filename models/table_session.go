package models

import "time"

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

// TableSession mengikat serangkaian order ke satu kunjungan meja.
// SessionID (UUID) dibagikan lewat QR scan dan dipakai klien pada
// setiap order serta permintaan pembayaran.
type TableSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	SessionID   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_id"`
	TableNumber int        `gorm:"not null;index" json:"table_number"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	OpenedAt    time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
