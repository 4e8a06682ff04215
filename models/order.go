package models

import "time"

// Status alur dapur untuk sebuah order.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

// Status pembayaran, dipakai di Order (salinan) dan Bill (sumber kebenaran).
const (
	BillingStatusUnpaid         = "unpaid"
	BillingStatusPendingPayment = "pending_payment"
	BillingStatusPaid           = "paid"
)

// Metode pembayaran yang diterima kasir.
const (
	PaymentMethodCash  = "cash"
	PaymentMethodCard  = "card"
	PaymentMethodUPI   = "upi"
	PaymentMethodOther = "other"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusPreparing: true,
	OrderStatusServed:    true,
	OrderStatusCancelled: true,
}

var billingStatuses = map[string]bool{
	BillingStatusUnpaid:         true,
	BillingStatusPendingPayment: true,
	BillingStatusPaid:           true,
}

var paymentMethods = map[string]bool{
	PaymentMethodCash:  true,
	PaymentMethodCard:  true,
	PaymentMethodUPI:   true,
	PaymentMethodOther: true,
}

func IsValidOrderStatus(s string) bool   { return orderStatuses[s] }
func IsValidBillingStatus(s string) bool { return billingStatuses[s] }
func IsValidPaymentMethod(s string) bool { return paymentMethods[s] }

// Order adalah satu pesanan dari satu meja dalam satu sesi kunjungan.
// Semua nilai uang disimpan apa adanya dari klien, server tidak menghitung ulang.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	SessionID       string      `gorm:"type:varchar(64);index;not null" json:"session_id"`
	TableNumber     int         `gorm:"not null;index" json:"table_number"`
	CustomerName    string      `gorm:"type:varchar(100);not null;default:'Guest'" json:"customer_name"`
	CustomerPhone   string      `gorm:"type:varchar(20);index" json:"customer_phone"`
	CustomerEmail   string      `gorm:"type:varchar(100)" json:"customer_email"`
	CustomerAddress string      `gorm:"type:varchar(255)" json:"customer_address"`
	UserID          *uint       `gorm:"index" json:"user_id,omitempty"`
	User            *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax             float64     `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total           float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	BillingStatus   string      `gorm:"type:varchar(20);not null;default:'unpaid'" json:"billing_status"`
	EstimatedTime   *int        `json:"estimated_time,omitempty"`
	CreatedAt       time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

// OrderItem menyimpan snapshot menu saat dipesan. Nama dan harga dibekukan,
// perubahan menu setelahnya tidak mengubah order lama.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID    *uint     `gorm:"index" json:"menu_id,omitempty"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL  string    `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
