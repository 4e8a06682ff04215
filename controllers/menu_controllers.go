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

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuReq struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int     `json:"stock" binding:"required,gte=0"`
	Available   *bool    `json:"available"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
}

// GetAllMenus -> katalog menu, filter opsional ?category= dan
// ?available=true untuk layar customer.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Preload("Category")

	if categoryStr := c.Query("category"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewValidationError("invalid category id"))
			return
		}
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("available") == "true" {
		query = query.Where("available = ?", true)
	}

	var menus []models.Menu
	if err := query.Order("name ASC").Find(&menus).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list menus", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID -> detail 1 menu
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("menu %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find menu", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu -> tambah menu baru (admin)
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body menuReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu payload: %v", err))
		return
	}

	var category models.MenuCategory
	if err := mc.DB.First(&category, body.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("category %d not found", body.CategoryID))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find category", err))
		return
	}

	now := time.Now()
	menu := models.Menu{
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Price:       *body.Price,
		Stock:       *body.Stock,
		Available:   true,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.Available != nil {
		menu.Available = *body.Available
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("create menu", err))
		return
	}
	menu.Category = category
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> ubah data menu (admin)
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu id"))
		return
	}

	var body menuReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu payload: %v", err))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("menu %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find menu", err))
		return
	}

	menu.CategoryID = body.CategoryID
	menu.Name = body.Name
	menu.Price = *body.Price
	menu.Stock = *body.Stock
	menu.Description = body.Description
	menu.ImageURL = body.ImageURL
	if body.Available != nil {
		menu.Available = *body.Available
	}
	menu.UpdatedAt = time.Now()

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("update menu", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// SetAvailability -> toggle cepat habis/tersedia tanpa kirim payload
// penuh (dipakai dari layar dapur).
func (mc *MenuController) SetAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu id"))
		return
	}

	var body struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("available is required"))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("menu %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find menu", err))
		return
	}

	if err := mc.DB.Model(&menu).Updates(map[string]interface{}{
		"available":  *body.Available,
		"updated_at": time.Now(),
	}).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("update availability", err))
		return
	}
	menu.Available = *body.Available
	utils.RespondJSON(c, http.StatusOK, "Menu availability updated", menu)
}

// DeleteMenu -> hapus menu (admin)
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("menu %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find menu", err))
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("delete menu", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
