package models

import "time"

// Notification adalah arsip pengumuman untuk staff. Event realtime tetap
// lewat websocket; baris ini dipakai dashboard yang baru login.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `json:"user_id,omitempty"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"user,omitempty"`
	Event     string    `gorm:"type:varchar(40);index" json:"event,omitempty"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
