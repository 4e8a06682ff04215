package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type OrderController struct {
	DB    *gorm.DB
	Pub   events.Publisher
	Sales *services.SalesRecorder
}

func NewOrderController(db *gorm.DB, pub events.Publisher, sales *services.SalesRecorder) *OrderController {
	return &OrderController{DB: db, Pub: pub, Sales: sales}
}

type orderItemReq struct {
	MenuID   *uint    `json:"menu_id"`
	Name     string   `json:"name" binding:"required"`
	Quantity int      `json:"quantity" binding:"required,min=1"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
	ImageURL string   `json:"image_url"`
	Notes    string   `json:"notes"`
}

type createOrderReq struct {
	OrderNumber     string         `json:"order_number" binding:"required"`
	SessionID       string         `json:"session_id" binding:"required"`
	TableNumber     int            `json:"table_number" binding:"required,min=1"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerAddress string         `json:"customer_address"`
	UserID          *uint          `json:"user_id"`
	Items           []orderItemReq `json:"items" binding:"required,min=1,dive"`
	Subtotal        *float64       `json:"subtotal" binding:"required,gte=0"`
	Tax             *float64       `json:"tax" binding:"required,gte=0"`
	Total           *float64       `json:"total" binding:"required,gte=0"`
	EstimatedTime   *int           `json:"estimated_time"`
}

// CreateOrder -> buat order baru (status pending, billing unpaid).
// Subtotal/tax/total dipercaya dari klien dan disimpan apa adanya.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body createOrderReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid order payload: %v", err))
		return
	}

	now := time.Now()
	order := models.Order{
		OrderNumber:     body.OrderNumber,
		SessionID:       body.SessionID,
		TableNumber:     body.TableNumber,
		CustomerName:    body.CustomerName,
		CustomerPhone:   body.CustomerPhone,
		CustomerEmail:   body.CustomerEmail,
		CustomerAddress: body.CustomerAddress,
		UserID:          body.UserID,
		Subtotal:        *body.Subtotal,
		Tax:             *body.Tax,
		Total:           *body.Total,
		Status:          models.OrderStatusPending,
		BillingStatus:   models.BillingStatusUnpaid,
		EstimatedTime:   body.EstimatedTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.CustomerName == "" {
		order.CustomerName = "Guest"
	}
	for _, item := range body.Items {
		order.Items = append(order.Items, models.OrderItem{
			MenuID:    item.MenuID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     *item.Price,
			ImageURL:  item.ImageURL,
			Notes:     item.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, utils.NewDuplicateError("order number %s already exists", body.OrderNumber))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("create order", err))
		return
	}

	oc.Pub.Emit(events.EventOrderNew, order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> list order, bisa difilter ?status=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.IsValidOrderStatus(status) {
		utils.RespondWithError(c, utils.NewValidationError("invalid order status %q", status))
		return
	}

	query := oc.DB.Preload("Items").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list orders", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail 1 order beserta items
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid order id"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("order %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find order", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> ubah status alur dapur. Transisi sengaja longgar
// (boleh mundur) supaya kasir bisa mengoreksi salah pencet; status
// terakhir yang menang. Saat served, record penjualan diturunkan
// best-effort.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("status is required"))
		return
	}
	if !models.IsValidOrderStatus(body.Status) {
		utils.RespondWithError(c, utils.NewValidationError("invalid order status %q", body.Status))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("order %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find order", err))
		return
	}

	now := time.Now()
	if err := oc.DB.Model(&order).Updates(map[string]interface{}{
		"status":     body.Status,
		"updated_at": now,
	}).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("update order status", err))
		return
	}
	order.Status = body.Status
	order.UpdatedAt = now

	oc.Pub.Emit(events.EventOrderStatusUpdate, order)

	if body.Status == models.OrderStatusServed {
		oc.Sales.RecordServed(&order)
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetOrdersByTable -> order per meja, terbaru dulu
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid table number"))
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("table_number = ?", tableNumber).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list table orders", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}

// GetOrdersByPhone -> riwayat order customer, terbaru dulu
func (oc *OrderController) GetOrdersByPhone(c *gin.Context) {
	phone := c.Param("phone")

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list customer orders", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for customer", orders)
}

// GetOrdersBySession -> semua order satu sesi, urut dibuat
func (oc *OrderController) GetOrdersBySession(c *gin.Context) {
	sessionID := c.Param("session_id")

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list session orders", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for session", orders)
}

// sessionBillView adalah tampilan gabungan (bukan Bill tersimpan) untuk
// layar "lihat tagihan" customer sebelum minta pembayaran.
type sessionBillView struct {
	SessionID     string             `json:"session_id"`
	TableNumber   int                `json:"table_number"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []models.OrderItem `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	Tax           float64            `json:"tax"`
	Total         float64            `json:"total"`
	OrderCount    int                `json:"order_count"`
	BillingStatus string             `json:"billing_status"`
	Orders        []models.Order     `json:"orders"`
}

// GetSessionBill -> gabungan semua order non-cancelled satu sesi.
// 404 kalau sesi tidak punya order yang bisa ditagih.
func (oc *OrderController) GetSessionBill(c *gin.Context) {
	sessionID := c.Param("session_id")

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("session_id = ? AND status <> ?", sessionID, models.OrderStatusCancelled).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list session orders", err))
		return
	}
	if len(orders) == 0 {
		utils.RespondWithError(c, utils.NewNotFoundError("no billable orders for session %s", sessionID))
		return
	}

	view := sessionBillView{
		SessionID:     sessionID,
		TableNumber:   orders[0].TableNumber,
		CustomerName:  orders[0].CustomerName,
		CustomerPhone: orders[0].CustomerPhone,
		OrderCount:    len(orders),
		BillingStatus: orders[0].BillingStatus,
		Orders:        orders,
	}
	for _, order := range orders {
		view.Items = append(view.Items, order.Items...)
		view.Subtotal += order.Subtotal
		view.Tax += order.Tax
		view.Total += order.Total
	}

	utils.RespondJSON(c, http.StatusOK, "Session bill", view)
}

// DeleteOrder -> hapus order beserta items (khusus admin, route-nya
// sudah dijaga middleware role).
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid order id"))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("order %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find order", err))
		return
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
	if err != nil {
		utils.RespondWithError(c, utils.NewQueryError("delete order", err))
		return
	}

	oc.Pub.Emit(events.EventOrderDeleted, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"session_id":   order.SessionID,
	})
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": order.ID})
}
