package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

var jakartaLikeZone = time.FixedZone("WIB", 7*60*60)

func setupBillingDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:billing_svc_test?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}
	// Migrasi model yang dibutuhkan
	err = db.AutoMigrate(
		&models.Order{}, &models.OrderItem{},
		&models.Bill{}, &models.BillItem{}, &models.BillCounter{},
		&models.Notification{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func newBillingService(db *gorm.DB, rec *events.Recorder, at time.Time) *BillingService {
	svc := NewBillingService(db, rec, jakartaLikeZone)
	svc.Now = func() time.Time { return at }
	return svc
}

func seedSessionOrder(db *gorm.DB, sessionID, number string, table int, subtotal, tax float64, status string) models.Order {
	order := models.Order{
		OrderNumber:   number,
		SessionID:     sessionID,
		TableNumber:   table,
		CustomerName:  "Asha",
		CustomerPhone: "0811-555-101",
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		Status:        status,
		BillingStatus: models.BillingStatusUnpaid,
		Items: []models.OrderItem{
			{Name: "Nasi Goreng", Quantity: 2, Price: subtotal / 2},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		panic(err)
	}
	return order
}

func TestRequestPaymentBuildsBillFromSessionOrders(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 10, 19, 30, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	seedSessionOrder(db, "sess-agg", "ORD-AGG-1", 4, 100, 10, models.OrderStatusServed)
	seedSessionOrder(db, "sess-agg", "ORD-AGG-2", 4, 100, 10, models.OrderStatusPending)

	bill, created, err := svc.RequestPayment("sess-agg")
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "BILL-20250310-001", bill.BillNumber)
	assert.Equal(t, 4, bill.TableNumber)
	assert.Equal(t, "Asha", bill.CustomerName)
	assert.Equal(t, 2, bill.OrderCount)
	assert.Equal(t, models.OrderNumberList{"ORD-AGG-1", "ORD-AGG-2"}, bill.OrderNumbers)
	assert.Equal(t, 200.0, bill.Subtotal)
	assert.Equal(t, 20.0, bill.Tax)
	assert.Equal(t, 220.0, bill.Total)
	assert.Equal(t, models.BillingStatusPendingPayment, bill.BillingStatus)
	assert.Len(t, bill.Items, 2)
	assert.Equal(t, "ORD-AGG-1", bill.Items[0].OrderNumber)

	// Order sesi ikut distempel pending_payment
	var orders []models.Order
	db.Where("session_id = ?", "sess-agg").Find(&orders)
	for _, o := range orders {
		assert.Equal(t, models.BillingStatusPendingPayment, o.BillingStatus)
	}

	assert.Contains(t, rec.Names(), events.EventPaymentRequest)

	var notifCount int64
	db.Model(&models.Notification{}).Where("event = ?", events.EventPaymentRequest).Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestRequestPaymentReturnsExistingBill(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 11, 12, 0, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	seedSessionOrder(db, "sess-idem", "ORD-IDEM-1", 7, 200, 20, models.OrderStatusServed)

	first, created, err := svc.RequestPayment("sess-idem")
	assert.NoError(t, err)
	assert.True(t, created)

	second, createdAgain, err := svc.RequestPayment("sess-idem")
	assert.NoError(t, err)
	assert.False(t, createdAgain)
	assert.Equal(t, first.BillNumber, second.BillNumber)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Bill{}).Where("session_id = ?", "sess-idem").Count(&count)
	assert.Equal(t, int64(1), count)

	// Emit hanya saat bill benar-benar dibuat
	var emits int
	for _, name := range rec.Names() {
		if name == events.EventPaymentRequest {
			emits++
		}
	}
	assert.Equal(t, 1, emits)
}

func TestRequestPaymentSkipsCancelledOrders(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 12, 20, 15, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	seedSessionOrder(db, "sess-cancel", "ORD-CXL-1", 9, 150, 0, models.OrderStatusServed)
	seedSessionOrder(db, "sess-cancel", "ORD-CXL-2", 9, 80, 0, models.OrderStatusCancelled)

	bill, created, err := svc.RequestPayment("sess-cancel")
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, bill.OrderCount)
	assert.Equal(t, 150.0, bill.Total)
	assert.Equal(t, models.OrderNumberList{"ORD-CXL-1"}, bill.OrderNumbers)
	assert.Len(t, bill.Items, 1)

	// Order cancelled tidak ikut distempel
	var cancelled models.Order
	db.Where("order_number = ?", "ORD-CXL-2").First(&cancelled)
	assert.Equal(t, models.BillingStatusUnpaid, cancelled.BillingStatus)
}

func TestRequestPaymentRejectsEmptySessions(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 13, 9, 0, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	_, _, err := svc.RequestPayment("")
	assert.Equal(t, 400, utils.HTTPStatus(err))

	_, _, err = svc.RequestPayment("sess-ghost")
	assert.Equal(t, 404, utils.HTTPStatus(err))

	// Sesi yang isinya cancelled semua juga tidak bisa ditagih
	seedSessionOrder(db, "sess-all-cxl", "ORD-ACXL-1", 2, 60, 0, models.OrderStatusCancelled)
	_, _, err = svc.RequestPayment("sess-all-cxl")
	assert.Equal(t, 404, utils.HTTPStatus(err))
}

func TestBillNumbersResetDaily(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	day1 := time.Date(2025, 3, 14, 11, 0, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, day1)

	seedSessionOrder(db, "sess-d1-a", "ORD-D1-A", 1, 50, 0, models.OrderStatusServed)
	seedSessionOrder(db, "sess-d1-b", "ORD-D1-B", 2, 60, 0, models.OrderStatusServed)

	billA, _, err := svc.RequestPayment("sess-d1-a")
	assert.NoError(t, err)
	assert.Equal(t, "BILL-20250314-001", billA.BillNumber)

	billB, _, err := svc.RequestPayment("sess-d1-b")
	assert.NoError(t, err)
	assert.Equal(t, "BILL-20250314-002", billB.BillNumber)

	// Hari berganti, nomor urut kembali ke 001
	svc.Now = func() time.Time { return day1.AddDate(0, 0, 1) }
	seedSessionOrder(db, "sess-d2-a", "ORD-D2-A", 3, 70, 0, models.OrderStatusServed)

	billC, _, err := svc.RequestPayment("sess-d2-a")
	assert.NoError(t, err)
	assert.Equal(t, "BILL-20250315-001", billC.BillNumber)
}

func TestSetBillingStatusPaidStampsBill(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 16, 21, 45, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	seedSessionOrder(db, "sess-paid", "ORD-PAID-1", 5, 120, 12, models.OrderStatusServed)
	_, _, err := svc.RequestPayment("sess-paid")
	assert.NoError(t, err)

	bill, err := svc.SetBillingStatus("sess-paid", models.BillingStatusPaid, models.PaymentMethodCash)
	assert.NoError(t, err)
	assert.Equal(t, models.BillingStatusPaid, bill.BillingStatus)
	assert.Equal(t, models.PaymentMethodCash, bill.PaymentMethod)
	if assert.NotNil(t, bill.PaidAt) {
		assert.Equal(t, at.Unix(), bill.PaidAt.Unix())
	}

	var order models.Order
	db.Where("order_number = ?", "ORD-PAID-1").First(&order)
	assert.Equal(t, models.BillingStatusPaid, order.BillingStatus)

	assert.Contains(t, rec.Names(), events.EventBillingStatusUpdate)

	// Transisi balik ke unpaid tidak menghapus jejak pembayaran
	back, err := svc.SetBillingStatus("sess-paid", models.BillingStatusUnpaid, "")
	assert.NoError(t, err)
	assert.Equal(t, models.BillingStatusUnpaid, back.BillingStatus)
	assert.NotNil(t, back.PaidAt)
	assert.Equal(t, models.PaymentMethodCash, back.PaymentMethod)
}

func TestSetBillingStatusValidation(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 17, 10, 0, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	_, err := svc.SetBillingStatus("sess-x", "settled", "")
	assert.Equal(t, 400, utils.HTTPStatus(err))

	_, err = svc.SetBillingStatus("sess-x", models.BillingStatusPaid, "crypto")
	assert.Equal(t, 400, utils.HTTPStatus(err))

	_, err = svc.SetBillingStatus("sess-missing", models.BillingStatusPaid, models.PaymentMethodCash)
	assert.Equal(t, 404, utils.HTTPStatus(err))
}

func TestSetBillingStatusWithoutBillStampsOrders(t *testing.T) {
	utils.InitLogger()
	db := setupBillingDB()
	rec := events.NewRecorder()
	at := time.Date(2025, 3, 18, 13, 30, 0, 0, jakartaLikeZone)
	svc := newBillingService(db, rec, at)

	seedSessionOrder(db, "sess-nobill", "ORD-NB-1", 6, 90, 0, models.OrderStatusPending)

	bill, err := svc.SetBillingStatus("sess-nobill", models.BillingStatusPaid, models.PaymentMethodCard)
	assert.NoError(t, err)
	assert.Nil(t, bill)

	var order models.Order
	db.Where("order_number = ?", "ORD-NB-1").First(&order)
	assert.Equal(t, models.BillingStatusPaid, order.BillingStatus)
}
