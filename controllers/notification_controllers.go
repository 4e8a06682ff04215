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
	"github.com/yeremiapane/resto-pos/utils"
)

// NotificationController melayani arsip pengumuman staff. Event billing
// menulis arsipnya sendiri; endpoint create di sini untuk pengumuman
// manual (briefing, menu habis, dst).
type NotificationController struct {
	DB  *gorm.DB
	Pub events.Publisher
}

func NewNotificationController(db *gorm.DB, pub events.Publisher) *NotificationController {
	return &NotificationController{DB: db, Pub: pub}
}

// GetAllNotifications -> terbaru dulu, ?limit= opsional
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 {
			utils.RespondWithError(c, utils.NewValidationError("invalid limit"))
			return
		}
		limit = v
	}

	var notifs []models.Notification
	if err := nc.DB.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&notifs).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list notifications", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

// CreateNotification -> pengumuman manual, ikut disiarkan ke websocket
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	var body struct {
		UserID  *uint  `json:"user_id"`
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("title and message are required"))
		return
	}

	notif := models.Notification{
		UserID:    body.UserID,
		Title:     body.Title,
		Message:   body.Message,
		CreatedAt: time.Now(),
	}
	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("create notification", err))
		return
	}

	nc.Pub.Emit(events.EventStaffNotification, notif)
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// GetNotificationByID
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid notification id"))
		return
	}

	var notif models.Notification
	if err := nc.DB.Preload("User").First(&notif, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("notification %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find notification", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification detail", notif)
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid notification id"))
		return
	}

	if err := nc.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("delete notification", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
