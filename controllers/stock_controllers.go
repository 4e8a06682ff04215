package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

// StockController mengurus koreksi stok menu dan jejaknya.
type StockController struct {
	DB *gorm.DB
}

func NewStockController(db *gorm.DB) *StockController {
	return &StockController{DB: db}
}

// AdjustStock -> koreksi stok menu (restock positif, waste negatif).
// Stok tidak boleh jatuh di bawah nol; setiap koreksi dicatat sebagai
// StockMovement dengan siapa dan kenapa.
func (sc *StockController) AdjustStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu id"))
		return
	}

	var body struct {
		Delta  *int   `json:"delta" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("delta is required"))
		return
	}
	if *body.Delta == 0 {
		utils.RespondWithError(c, utils.NewValidationError("delta must not be zero"))
		return
	}

	var userID *uint
	if v, ok := c.Get("user_id"); ok {
		if uid, ok := v.(uint); ok {
			userID = &uid
		}
	}

	var menu models.Menu
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&menu, id).Error; err != nil {
			return err
		}
		newStock := menu.Stock + *body.Delta
		if newStock < 0 {
			return utils.NewValidationError("stock for %s cannot go below zero (current %d, delta %d)",
				menu.Name, menu.Stock, *body.Delta)
		}

		now := time.Now()
		if err := tx.Model(&menu).Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		menu.Stock = newStock

		movement := models.StockMovement{
			MenuID:    menu.ID,
			UserID:    userID,
			Delta:     *body.Delta,
			Reason:    body.Reason,
			CreatedAt: now,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("menu %d not found", id))
			return
		}
		var vErr *utils.ValidationError
		if errors.As(err, &vErr) {
			utils.RespondWithError(c, vErr)
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("adjust stock", err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Stock adjusted", menu)
}

// GetLowStock -> menu dengan stok di bawah ambang (?threshold=, default 5)
func (sc *StockController) GetLowStock(c *gin.Context) {
	threshold := 5
	if t := c.Query("threshold"); t != "" {
		v, err := strconv.Atoi(t)
		if err != nil || v < 0 {
			utils.RespondWithError(c, utils.NewValidationError("invalid threshold"))
			return
		}
		threshold = v
	}

	var menus []models.Menu
	if err := sc.DB.Preload("Category").
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&menus).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list low stock", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock menus", menus)
}

// GetStockMovements -> riwayat koreksi stok, terbaru dulu. Bisa
// difilter per menu dengan ?menu_id=.
func (sc *StockController) GetStockMovements(c *gin.Context) {
	query := sc.DB.Preload("Menu").Preload("User").Order("created_at DESC")

	if menuStr := c.Query("menu_id"); menuStr != "" {
		menuID, err := strconv.Atoi(menuStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewValidationError("invalid menu id"))
			return
		}
		query = query.Where("menu_id = ?", menuID)
	}

	var movements []models.StockMovement
	if err := query.Limit(100).Find(&movements).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list stock movements", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock movements", movements)
}
