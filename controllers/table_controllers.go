package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> tambah meja baru (admin)
func (tc *TableController) CreateTable(c *gin.Context) {
	var body struct {
		TableNumber int `json:"table_number" binding:"required,min=1"`
		Capacity    int `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid table payload: %v", err))
		return
	}

	table := models.Table{
		TableNumber: body.TableNumber,
		Capacity:    body.Capacity,
		Status:      models.TableStatusAvailable,
	}
	if table.Capacity <= 0 {
		table.Capacity = 2
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, utils.NewDuplicateError("table %d already exists", body.TableNumber))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("create table", err))
		return
	}

	utils.InfoLogger.Printf("New table created: %d", table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetAllTables -> seluruh meja, filter opsional ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Order("table_number ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list tables", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) findTable(c *gin.Context) (*models.Table, bool) {
	tableNumber, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid table number"))
		return nil, false
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("table %d not found", tableNumber))
			return nil, false
		}
		utils.RespondWithError(c, utils.NewQueryError("find table", err))
		return nil, false
	}
	return &table, true
}

// ScanTable -> customer scan QR meja. Sesi aktif dipakai ulang supaya
// semua orang di meja yang sama menagih ke satu sesi; kalau belum ada,
// buat sesi baru dan tandai meja occupied.
func (tc *TableController) ScanTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var session models.TableSession
	err := tc.DB.Where("table_number = ? AND status = ?", table.TableNumber, models.SessionStatusActive).
		First(&session).Error
	if err == nil {
		utils.RespondJSON(c, http.StatusOK, "Active session", session)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, utils.NewQueryError("find session", err))
		return
	}

	now := time.Now()
	session = models.TableSession{
		SessionID:   uuid.NewString(),
		TableNumber: table.TableNumber,
		Status:      models.SessionStatusActive,
		OpenedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).Where("id = ?", table.ID).Updates(map[string]interface{}{
			"status":     models.TableStatusOccupied,
			"updated_at": now,
		}).Error
	})
	if err != nil {
		utils.RespondWithError(c, utils.NewQueryError("open session", err))
		return
	}

	utils.InfoLogger.Printf("Session %s opened for table %d", session.SessionID, table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Session opened", session)
}

// GetActiveSession -> sesi aktif sebuah meja, 404 kalau kosong
func (tc *TableController) GetActiveSession(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var session models.TableSession
	if err := tc.DB.Where("table_number = ? AND status = ?", table.TableNumber, models.SessionStatusActive).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("no active session for table %d", table.TableNumber))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find session", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active session", session)
}

// CloseSession -> tutup sesi aktif setelah pembayaran, meja kembali
// available. Sesi berikutnya di meja ini dapat session_id baru.
func (tc *TableController) CloseSession(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var session models.TableSession
	if err := tc.DB.Where("table_number = ? AND status = ?", table.TableNumber, models.SessionStatusActive).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("no active session for table %d", table.TableNumber))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find session", err))
		return
	}

	now := time.Now()
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TableSession{}).Where("id = ?", session.ID).Updates(map[string]interface{}{
			"status":     models.SessionStatusClosed,
			"closed_at":  now,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).Where("id = ?", table.ID).Updates(map[string]interface{}{
			"status":     models.TableStatusAvailable,
			"updated_at": now,
		}).Error
	})
	if err != nil {
		utils.RespondWithError(c, utils.NewQueryError("close session", err))
		return
	}

	session.Status = models.SessionStatusClosed
	session.ClosedAt = &now
	utils.InfoLogger.Printf("Session %s closed for table %d", session.SessionID, table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Session closed", session)
}

// UpdateTableStatus -> koreksi manual status meja (admin/staff)
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("status is required"))
		return
	}
	if body.Status != models.TableStatusAvailable && body.Status != models.TableStatusOccupied {
		utils.RespondWithError(c, utils.NewValidationError("invalid table status %q", body.Status))
		return
	}

	if err := tc.DB.Model(table).Updates(map[string]interface{}{
		"status":     body.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("update table", err))
		return
	}
	table.Status = body.Status
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> hapus meja (admin)
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	if err := tc.DB.Delete(table).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("delete table", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"table_number": table.TableNumber})
}
