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

func setupSalesDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:sales_rec_test?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.SalesRecord{}, &models.SalesItem{}); err != nil {
		panic(err)
	}
	return db
}

func servedOrderFixture(number string) *models.Order {
	return &models.Order{
		OrderNumber:   number,
		SessionID:     "sess-" + number,
		TableNumber:   8,
		CustomerName:  "Rina",
		CustomerPhone: "0811-777",
		Subtotal:      90,
		Tax:           9,
		Total:         99,
		Status:        models.OrderStatusServed,
		CreatedAt:     time.Date(2025, 5, 2, 18, 0, 0, 0, jakartaLikeZone),
		Items: []models.OrderItem{
			{Name: "Mie Ayam", Quantity: 3, Price: 30},
		},
	}
}

func TestRecordServedCreatesSnapshot(t *testing.T) {
	utils.InitLogger()
	db := setupSalesDB()
	pub := events.NewRecorder()
	recorder := NewSalesRecorder(db, pub)
	servedAt := time.Date(2025, 5, 2, 18, 25, 0, 0, jakartaLikeZone)
	recorder.Now = func() time.Time { return servedAt }

	rec := recorder.RecordServed(servedOrderFixture("ORD-SRV-1"))
	if assert.NotNil(t, rec) {
		assert.Equal(t, "ORD-SRV-1", rec.OrderNumber)
		assert.Equal(t, 99.0, rec.Total)
		assert.Equal(t, servedAt.Unix(), rec.ServedAt.Unix())
		assert.Len(t, rec.Items, 1)
		assert.Equal(t, "Mie Ayam", rec.Items[0].Name)
	}

	var count int64
	db.Model(&models.SalesRecord{}).Where("order_number = ?", "ORD-SRV-1").Count(&count)
	assert.Equal(t, int64(1), count)

	assert.Contains(t, pub.Names(), events.EventSalesNew)

	derived, failed := recorder.Metrics()
	assert.Equal(t, uint64(1), derived)
	assert.Equal(t, uint64(0), failed)
}

func TestRecordServedSkipsDuplicates(t *testing.T) {
	utils.InitLogger()
	db := setupSalesDB()
	pub := events.NewRecorder()
	recorder := NewSalesRecorder(db, pub)

	order := servedOrderFixture("ORD-SRV-DUP")
	assert.NotNil(t, recorder.RecordServed(order))

	// Served yang diulang tidak menghasilkan record kedua
	assert.Nil(t, recorder.RecordServed(order))

	var count int64
	db.Model(&models.SalesRecord{}).Where("order_number = ?", "ORD-SRV-DUP").Count(&count)
	assert.Equal(t, int64(1), count)

	derived, failed := recorder.Metrics()
	assert.Equal(t, uint64(1), derived)
	assert.Equal(t, uint64(1), failed)
}
