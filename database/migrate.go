package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
)

// Migrate menjalankan AutoMigrate untuk seluruh model. Urutan mengikuti
// dependensi foreign key.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.TableSession{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.StockMovement{},
		&models.Order{},
		&models.OrderItem{},
		&models.Bill{},
		&models.BillItem{},
		&models.BillCounter{},
		&models.SalesRecord{},
		&models.SalesItem{},
		&models.Notification{},
	)
}
