package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

// SalesRecorder menurunkan baris histori penjualan ketika order
// berstatus served. Best effort: kegagalan tidak pernah menggagalkan
// update status order, hanya dicatat dan dihitung.
type SalesRecorder struct {
	DB  *gorm.DB
	Pub events.Publisher

	// Now bisa diganti di test untuk membekukan jam.
	Now func() time.Time

	mu      sync.Mutex
	derived uint64
	failed  uint64
}

func NewSalesRecorder(db *gorm.DB, pub events.Publisher) *SalesRecorder {
	return &SalesRecorder{
		DB:  db,
		Pub: pub,
		Now: time.Now,
	}
}

// RecordServed membuat SalesRecord dari snapshot order. Order yang sama
// tidak pernah tercatat dua kali (order_number unik): served yang
// diulang hanya menambah counter failed.
func (r *SalesRecorder) RecordServed(order *models.Order) *models.SalesRecord {
	now := r.Now()
	rec := &models.SalesRecord{
		OrderNumber:   order.OrderNumber,
		SessionID:     order.SessionID,
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Total:         order.Total,
		OrderedAt:     order.CreatedAt,
		ServedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, models.SalesItem{
			MenuID:    item.MenuID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := r.DB.Create(rec).Error; err != nil {
		r.mu.Lock()
		r.failed++
		r.mu.Unlock()
		utils.ErrorLogger.Printf("sales: record untuk order %s tidak tersimpan: %v", order.OrderNumber, err)
		return nil
	}

	r.mu.Lock()
	r.derived++
	r.mu.Unlock()

	r.Pub.Emit(events.EventSalesNew, rec)
	return rec
}

// Metrics mengembalikan jumlah record yang berhasil dan gagal dibuat
// sejak proses hidup.
func (r *SalesRecorder) Metrics() (derived, failed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.derived, r.failed
}
