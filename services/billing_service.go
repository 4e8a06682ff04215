package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

// BillingService menggabungkan seluruh order non-cancelled satu sesi
// menjadi satu Bill dan mengelola status pembayarannya. Bill adalah
// sumber kebenaran status billing; kolom billing_status di Order hanya
// salinan untuk klien lama.
type BillingService struct {
	DB  *gorm.DB
	Pub events.Publisher
	Loc *time.Location

	// Now bisa diganti di test untuk membekukan jam.
	Now func() time.Time
}

func NewBillingService(db *gorm.DB, pub events.Publisher, loc *time.Location) *BillingService {
	if loc == nil {
		loc = time.Local
	}
	return &BillingService{
		DB:  db,
		Pub: pub,
		Loc: loc,
		Now: time.Now,
	}
}

// RequestPayment mengembalikan bill untuk sesi, membuat snapshot baru
// bila belum ada. created=true hanya saat bill baru dibuat. Pemanggilan
// berulang (dua kasir menekan tombol bersamaan) selalu berujung pada
// bill yang sama: session_id unik di tabel bills, dan yang kalah insert
// mengambil bill milik pemenang.
func (s *BillingService) RequestPayment(sessionID string) (*models.Bill, bool, error) {
	if sessionID == "" {
		return nil, false, utils.NewValidationError("session id is required")
	}

	var existing models.Bill
	err := s.DB.Preload("Items").Where("session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, utils.NewQueryError("find bill", err)
	}

	var orders []models.Order
	if err := s.DB.Preload("Items").
		Where("session_id = ? AND status <> ?", sessionID, models.OrderStatusCancelled).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, false, utils.NewQueryError("find session orders", err)
	}
	if len(orders) == 0 {
		return nil, false, utils.NewNotFoundError("no billable orders for session %s", sessionID)
	}

	now := s.Now()
	bill := s.buildBill(sessionID, orders, now)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := nextBillSequence(tx, now.In(s.Loc))
		if err != nil {
			return err
		}
		bill.BillNumber = fmt.Sprintf("BILL-%s-%03d", now.In(s.Loc).Format("20060102"), seq)

		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		// Salin status ke order lama untuk kompatibilitas klien
		return tx.Model(&models.Order{}).
			Where("session_id = ? AND status <> ?", sessionID, models.OrderStatusCancelled).
			Updates(map[string]interface{}{
				"billing_status": models.BillingStatusPendingPayment,
				"updated_at":     now,
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Kalah balapan: request lain sudah membuat bill sesi ini
			var winner models.Bill
			if ferr := s.DB.Preload("Items").Where("session_id = ?", sessionID).First(&winner).Error; ferr == nil {
				return &winner, false, nil
			}
			return nil, false, utils.NewQueryError("find bill after duplicate", err)
		}
		return nil, false, utils.NewQueryError("create bill", err)
	}

	s.Pub.Emit(events.EventPaymentRequest, map[string]interface{}{
		"bill_number":    bill.BillNumber,
		"session_id":     bill.SessionID,
		"table_number":   bill.TableNumber,
		"customer_name":  bill.CustomerName,
		"customer_phone": bill.CustomerPhone,
		"total":          bill.Total,
		"order_count":    bill.OrderCount,
		"requested_at":   bill.PaymentRequestedAt,
	})
	s.notifyStaff(events.EventPaymentRequest, "Payment requested",
		fmt.Sprintf("Meja %d minta pembayaran, bill %s total %s",
			bill.TableNumber, bill.BillNumber, utils.FormatCurrency(bill.Total)))

	return bill, true, nil
}

// buildBill merangkum order satu sesi menjadi snapshot bill. Item dan
// total disalin apa adanya; data customer diambil dari order pertama.
func (s *BillingService) buildBill(sessionID string, orders []models.Order, now time.Time) *models.Bill {
	first := orders[0]
	bill := &models.Bill{
		SessionID:          sessionID,
		TableNumber:        first.TableNumber,
		CustomerName:       first.CustomerName,
		CustomerPhone:      first.CustomerPhone,
		CustomerEmail:      first.CustomerEmail,
		CustomerAddress:    first.CustomerAddress,
		OrderCount:         len(orders),
		BillingStatus:      models.BillingStatusPendingPayment,
		PaymentRequestedAt: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	for _, order := range orders {
		bill.OrderNumbers = append(bill.OrderNumbers, order.OrderNumber)
		bill.Subtotal += order.Subtotal
		bill.Tax += order.Tax
		bill.Total += order.Total
		for _, item := range order.Items {
			bill.Items = append(bill.Items, models.BillItem{
				OrderNumber: order.OrderNumber,
				MenuID:      item.MenuID,
				Name:        item.Name,
				Quantity:    item.Quantity,
				Price:       item.Price,
				ImageURL:    item.ImageURL,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}
	return bill
}

// nextBillSequence mengambil nomor urut berikutnya untuk hari lokal.
// Upsert counter dan pembacaan ulang terjadi dalam transaksi yang sama,
// jadi dua request paralel tidak pernah mendapat angka kembar.
func nextBillSequence(tx *gorm.DB, localNow time.Time) (int, error) {
	key := localNow.Format("20060102")
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
	}).Create(&models.BillCounter{Day: key, Seq: 1}).Error; err != nil {
		return 0, err
	}

	var counter models.BillCounter
	if err := tx.Where("day = ?", key).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// SetBillingStatus mengubah status pembayaran sebuah sesi. Bill (kalau
// ada) di-update, dan semua order sesi ikut distempel untuk
// kompatibilitas. paid menstempel paid_at dan metode pembayaran;
// transisi balik ke unpaid tidak menghapus keduanya.
func (s *BillingService) SetBillingStatus(sessionID, status, method string) (*models.Bill, error) {
	if !models.IsValidBillingStatus(status) {
		return nil, utils.NewValidationError("invalid billing status %q", status)
	}
	if method != "" && !models.IsValidPaymentMethod(method) {
		return nil, utils.NewValidationError("invalid payment method %q", method)
	}

	var bill models.Bill
	billErr := s.DB.Where("session_id = ?", sessionID).First(&bill).Error
	if billErr != nil && !errors.Is(billErr, gorm.ErrRecordNotFound) {
		return nil, utils.NewQueryError("find bill", billErr)
	}
	hasBill := billErr == nil

	var orderCount int64
	if err := s.DB.Model(&models.Order{}).Where("session_id = ?", sessionID).Count(&orderCount).Error; err != nil {
		return nil, utils.NewQueryError("count session orders", err)
	}
	if !hasBill && orderCount == 0 {
		return nil, utils.NewNotFoundError("no bill or orders for session %s", sessionID)
	}

	now := s.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if hasBill {
			updates := map[string]interface{}{
				"billing_status": status,
				"updated_at":     now,
			}
			if status == models.BillingStatusPaid {
				updates["paid_at"] = now
				if method != "" {
					updates["payment_method"] = method
				}
			}
			if err := tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Order{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"billing_status": status,
				"updated_at":     now,
			}).Error
	})
	if err != nil {
		return nil, utils.NewQueryError("update billing status", err)
	}

	var updated *models.Bill
	if hasBill {
		var fresh models.Bill
		if err := s.DB.Preload("Items").First(&fresh, bill.ID).Error; err != nil {
			return nil, utils.NewQueryError("reload bill", err)
		}
		updated = &fresh
	}

	payload := map[string]interface{}{
		"session_id":     sessionID,
		"billing_status": status,
	}
	if method != "" {
		payload["payment_method"] = method
	}
	if updated != nil {
		payload["bill_number"] = updated.BillNumber
		payload["table_number"] = updated.TableNumber
		payload["total"] = updated.Total
		if updated.PaidAt != nil {
			payload["paid_at"] = updated.PaidAt
		}
	}
	s.Pub.Emit(events.EventBillingStatusUpdate, payload)

	if status == models.BillingStatusPaid && updated != nil {
		s.notifyStaff(events.EventBillingStatusUpdate, "Bill paid",
			fmt.Sprintf("Bill %s meja %d lunas (%s), total %s",
				updated.BillNumber, updated.TableNumber, method, utils.FormatCurrency(updated.Total)))
	}

	return updated, nil
}

// notifyStaff mengarsipkan pengumuman ke tabel notifications. Gagal
// menulis hanya dicatat, tidak mengganggu alur pembayaran.
func (s *BillingService) notifyStaff(event, title, message string) {
	n := models.Notification{
		Event:     event,
		Title:     title,
		Message:   message,
		CreatedAt: s.Now(),
	}
	if err := s.DB.Create(&n).Error; err != nil {
		utils.ErrorLogger.Printf("billing: gagal arsip notifikasi %s: %v", event, err)
	}
}
