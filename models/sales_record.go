package models

import "time"

// SalesRecord adalah baris histori penjualan, diturunkan otomatis saat
// sebuah order berstatus served. Satu order maksimal satu record
// (order_number unik), jadi served yang diulang tidak menggandakan angka.
type SalesRecord struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	SessionID     string      `gorm:"type:varchar(64);index;not null" json:"session_id"`
	TableNumber   int         `gorm:"not null" json:"table_number"`
	CustomerName  string      `gorm:"type:varchar(100);not null;default:'Guest'" json:"customer_name"`
	CustomerPhone string      `gorm:"type:varchar(20);index" json:"customer_phone"`
	Items         []SalesItem `gorm:"foreignKey:SalesRecordID" json:"items"`
	Subtotal      float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax           float64     `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total         float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	OrderedAt     time.Time   `gorm:"not null" json:"ordered_at"`
	ServedAt      time.Time   `gorm:"not null;index" json:"served_at"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

type SalesItem struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	SalesRecordID uint        `gorm:"not null;index" json:"sales_record_id"`
	SalesRecord   SalesRecord `gorm:"foreignKey:SalesRecordID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID        *uint       `gorm:"index" json:"menu_id,omitempty"`
	Name          string      `gorm:"type:varchar(100);not null" json:"name"`
	Quantity      int         `gorm:"not null" json:"quantity"`
	Price         float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}
