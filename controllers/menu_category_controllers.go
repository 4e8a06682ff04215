package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

// GetAllCategories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.MenuCategory
	if err := mcc.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list categories", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// CreateCategory
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("name is required"))
		return
	}

	category := models.MenuCategory{Name: body.Name}
	if err := mcc.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, utils.NewDuplicateError("category %s already exists", body.Name))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("create category", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// GetCategoryByID
func (mcc *MenuCategoryController) GetCategoryByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("cat_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid category id"))
		return
	}

	var category models.MenuCategory
	if err := mcc.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("category %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find category", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// UpdateCategory
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("cat_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid category id"))
		return
	}

	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("name is required"))
		return
	}

	var category models.MenuCategory
	if err := mcc.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("category %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find category", err))
		return
	}

	category.Name = body.Name
	if err := mcc.DB.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, utils.NewDuplicateError("category %s already exists", body.Name))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("update category", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("cat_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid category id"))
		return
	}

	if err := mcc.DB.Delete(&models.MenuCategory{}, id).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("delete category", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
