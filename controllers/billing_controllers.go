package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type BillingController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBillingController(db *gorm.DB, billing *services.BillingService) *BillingController {
	return &BillingController{DB: db, Billing: billing}
}

// RequestPayment -> customer minta bayar. Idempoten: request kedua
// untuk sesi yang sama mengembalikan bill yang sudah ada (200), hanya
// pembuatan baru yang 201.
func (bc *BillingController) RequestPayment(c *gin.Context) {
	sessionID := c.Param("session_id")

	bill, created, err := bc.Billing.RequestPayment(sessionID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	if created {
		utils.RespondJSON(c, http.StatusCreated, "Bill generated", bill)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill already exists", bill)
}

// UpdateBillingStatus -> kasir menandai unpaid/pending_payment/paid.
func (bc *BillingController) UpdateBillingStatus(c *gin.Context) {
	sessionID := c.Param("session_id")

	var body struct {
		BillingStatus string `json:"billing_status" binding:"required"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("billing_status is required"))
		return
	}

	bill, err := bc.Billing.SetBillingStatus(sessionID, body.BillingStatus, body.PaymentMethod)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	data := gin.H{
		"session_id":     sessionID,
		"billing_status": body.BillingStatus,
	}
	if body.PaymentMethod != "" {
		data["payment_method"] = body.PaymentMethod
	}
	if bill != nil {
		data["bill"] = bill
	}
	utils.RespondJSON(c, http.StatusOK, "Billing status updated", data)
}

// GetPendingBills -> antrian kasir: bill yang belum lunas, request
// terbaru dulu.
func (bc *BillingController) GetPendingBills(c *gin.Context) {
	var bills []models.Bill
	if err := bc.DB.Preload("Items").
		Where("billing_status IN ?", []string{models.BillingStatusUnpaid, models.BillingStatusPendingPayment}).
		Order("payment_requested_at DESC").
		Find(&bills).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list pending bills", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending bills", bills)
}

// GetAllBills -> list bill dengan filter opsional ?status= dan rentang
// tanggal ?from=YYYY-MM-DD&to=YYYY-MM-DD (tanggal lokal resto, difilter
// pada waktu request pembayaran).
func (bc *BillingController) GetAllBills(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.IsValidBillingStatus(status) {
		utils.RespondWithError(c, utils.NewValidationError("invalid billing status %q", status))
		return
	}

	query := bc.DB.Preload("Items").Order("payment_requested_at DESC")
	if status != "" {
		query = query.Where("billing_status = ?", status)
	}

	loc := bc.Billing.Loc
	if from := c.Query("from"); from != "" {
		start, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			utils.RespondWithError(c, utils.NewValidationError("invalid from date %q", from))
			return
		}
		query = query.Where("payment_requested_at >= ?", start)
	}
	if to := c.Query("to"); to != "" {
		end, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			utils.RespondWithError(c, utils.NewValidationError("invalid to date %q", to))
			return
		}
		query = query.Where("payment_requested_at <= ?", end.Add(24*time.Hour-time.Second))
	}

	var bills []models.Bill
	if err := query.Find(&bills).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list bills", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bills", bills)
}

// GetBillBySession -> bill tersimpan milik satu sesi.
func (bc *BillingController) GetBillBySession(c *gin.Context) {
	sessionID := c.Param("session_id")

	var bill models.Bill
	if err := bc.DB.Preload("Items").Where("session_id = ?", sessionID).First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("no bill for session %s", sessionID))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find bill", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

// GetBillsByPhone -> riwayat bill customer, terbaru dulu.
func (bc *BillingController) GetBillsByPhone(c *gin.Context) {
	phone := c.Param("phone")

	var bills []models.Bill
	if err := bc.DB.Preload("Items").
		Where("customer_phone = ?", phone).
		Order("payment_requested_at DESC").
		Find(&bills).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list customer bills", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bills for customer", bills)
}
