package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderNumberList disimpan sebagai JSON text supaya satu kolom cukup
// untuk daftar nomor order pembentuk bill.
type OrderNumberList []string

func (l OrderNumberList) Value() (driver.Value, error) {
	if l == nil {
		l = OrderNumberList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *OrderNumberList) Scan(value interface{}) error {
	if value == nil {
		*l = OrderNumberList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("order number list: tipe kolom tidak dikenal %T", value)
	}
}

// Bill adalah snapshot tagihan satu sesi meja. Dibuat sekali per sesi
// (session_id unik) saat customer minta pembayaran; setelah itu isi item
// dan total tidak berubah, hanya status pembayarannya.
type Bill struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	BillNumber         string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"bill_number"`
	SessionID          string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_id"`
	TableNumber        int             `gorm:"not null;index" json:"table_number"`
	CustomerName       string          `gorm:"type:varchar(100);not null;default:'Guest'" json:"customer_name"`
	CustomerPhone      string          `gorm:"type:varchar(20);index" json:"customer_phone"`
	CustomerEmail      string          `gorm:"type:varchar(100)" json:"customer_email"`
	CustomerAddress    string          `gorm:"type:varchar(255)" json:"customer_address"`
	Items              []BillItem      `gorm:"foreignKey:BillID" json:"items"`
	OrderNumbers       OrderNumberList `gorm:"type:text;not null" json:"order_numbers"`
	OrderCount         int             `gorm:"not null" json:"order_count"`
	Subtotal           float64         `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax                float64         `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total              float64         `gorm:"type:decimal(10,2);not null" json:"total"`
	BillingStatus      string          `gorm:"type:varchar(20);not null;default:'pending_payment'" json:"billing_status"`
	PaymentMethod      string          `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	PaymentRequestedAt time.Time       `gorm:"not null;index" json:"payment_requested_at"`
	PaidAt             *time.Time      `gorm:"index" json:"paid_at,omitempty"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`
}

// BillItem adalah baris item pada bill, digabung dari seluruh order
// non-cancelled dalam sesi. OrderNumber menunjuk order asalnya.
type BillItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BillID      uint      `gorm:"not null;index" json:"bill_id"`
	Bill        Bill      `gorm:"foreignKey:BillID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderNumber string    `gorm:"type:varchar(50);not null" json:"order_number"`
	MenuID      *uint     `gorm:"index" json:"menu_id,omitempty"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// BillCounter menjaga nomor urut bill per hari lokal. Baris di-upsert
// di dalam transaksi pembuatan bill supaya urutan tetap rapat walau
// ada request paralel.
type BillCounter struct {
	Day string `gorm:"primaryKey;type:varchar(8)" json:"day"`
	Seq int    `gorm:"not null" json:"seq"`
}
