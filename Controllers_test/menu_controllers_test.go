package Controllers_test

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/controllers"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

func setupMenuRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:menus_ctrl_test?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MenuCategory{}, &models.Menu{}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	menuCtrl := controllers.NewMenuController(db)
	catCtrl := controllers.NewMenuCategoryController(db)

	r.GET("/categories", catCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)

	admin := r.Group("/admin")
	{
		admin.POST("/categories", catCtrl.CreateCategory)
		admin.GET("/categories/:cat_id", catCtrl.GetCategoryByID)
		admin.PATCH("/categories/:cat_id", catCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", catCtrl.DeleteCategory)

		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.PATCH("/menus/:menu_id/availability", menuCtrl.SetAvailability)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)
	}
	return r, db
}

func createCategory(t *testing.T, r *gin.Engine, name string) uint {
	t.Helper()
	w := doRequest(r, "POST", "/admin/categories", gin.H{"name": name}, nil)
	require.Equal(t, 201, w.Code)
	return uint(dataObject(w)["id"].(float64))
}

func menuPayload(categoryID uint, name string, price float64, stock int) gin.H {
	return gin.H{
		"category_id": categoryID,
		"name":        name,
		"price":       price,
		"stock":       stock,
		"description": "porsi reguler",
	}
}

func TestCategoryCRUD(t *testing.T) {
	r, _ := setupMenuRouter(t)

	w := doRequest(r, "POST", "/admin/categories", gin.H{"name": "Minuman"}, nil)
	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "Category created", decodeBody(w)["message"])
	catID := uint(dataObject(w)["id"].(float64))

	// Nama kategori unik.
	w = doRequest(r, "POST", "/admin/categories", gin.H{"name": "Minuman"}, nil)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeBody(w)["message"], "already exists")

	w = doRequest(r, "POST", "/admin/categories", gin.H{}, nil)
	assert.Equal(t, 400, w.Code)

	w = doRequest(r, "GET", fmt.Sprintf("/admin/categories/%d", catID), nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Minuman", dataObject(w)["name"])

	w = doRequest(r, "PATCH", fmt.Sprintf("/admin/categories/%d", catID), gin.H{"name": "Minuman Dingin"}, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Minuman Dingin", dataObject(w)["name"])

	w = doRequest(r, "GET", "/admin/categories/99999", nil, nil)
	assert.Equal(t, 404, w.Code)

	w = doRequest(r, "DELETE", fmt.Sprintf("/admin/categories/%d", catID), nil, nil)
	assert.Equal(t, 200, w.Code)

	w = doRequest(r, "GET", fmt.Sprintf("/admin/categories/%d", catID), nil, nil)
	assert.Equal(t, 404, w.Code)
}

func TestCreateMenuValidation(t *testing.T) {
	r, _ := setupMenuRouter(t)
	catID := createCategory(t, r, "Makanan Berat")

	// Kategori harus ada lebih dulu.
	w := doRequest(r, "POST", "/admin/menus", menuPayload(99999, "Rendang", 45, 10), nil)
	assert.Equal(t, 404, w.Code)
	assert.Contains(t, decodeBody(w)["message"], "not found")

	w = doRequest(r, "POST", "/admin/menus", gin.H{"category_id": catID, "name": "Rendang"}, nil)
	assert.Equal(t, 400, w.Code)

	// Harga dan stok nol itu valid (menu gratis / belum restock).
	w = doRequest(r, "POST", "/admin/menus", menuPayload(catID, "Air Putih", 0, 0), nil)
	assert.Equal(t, 201, w.Code)
	data := dataObject(w)
	assert.Equal(t, 0.0, data["price"])
	assert.Equal(t, 0.0, data["stock"])
	assert.Equal(t, true, data["available"])
}

func TestMenuLifecycle(t *testing.T) {
	r, db := setupMenuRouter(t)
	catID := createCategory(t, r, "Sarapan")

	w := doRequest(r, "POST", "/admin/menus", menuPayload(catID, "Bubur Ayam", 18, 25), nil)
	require.Equal(t, 201, w.Code)
	assert.Equal(t, "Menu created", decodeBody(w)["message"])
	data := dataObject(w)
	menuID := uint(data["id"].(float64))
	assert.Equal(t, true, data["available"])
	category := data["category"].(map[string]interface{})
	assert.Equal(t, "Sarapan", category["name"])

	w = doRequest(r, "GET", fmt.Sprintf("/admin/menus/%d", menuID), nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Bubur Ayam", dataObject(w)["name"])

	update := menuPayload(catID, "Bubur Ayam Spesial", 22, 20)
	update["available"] = false
	w = doRequest(r, "PATCH", fmt.Sprintf("/admin/menus/%d", menuID), update, nil)
	assert.Equal(t, 200, w.Code)
	data = dataObject(w)
	assert.Equal(t, "Bubur Ayam Spesial", data["name"])
	assert.Equal(t, 22.0, data["price"])
	assert.Equal(t, false, data["available"])

	w = doRequest(r, "PATCH", fmt.Sprintf("/admin/menus/%d/availability", menuID), gin.H{"available": true}, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, true, dataObject(w)["available"])

	var stored models.Menu
	require.NoError(t, db.First(&stored, menuID).Error)
	assert.True(t, stored.Available)

	// Body tanpa field available ditolak, bukan dianggap false.
	w = doRequest(r, "PATCH", fmt.Sprintf("/admin/menus/%d/availability", menuID), gin.H{}, nil)
	assert.Equal(t, 400, w.Code)

	w = doRequest(r, "DELETE", fmt.Sprintf("/admin/menus/%d", menuID), nil, nil)
	assert.Equal(t, 200, w.Code)

	w = doRequest(r, "GET", fmt.Sprintf("/admin/menus/%d", menuID), nil, nil)
	assert.Equal(t, 404, w.Code)
}

func TestMenuCatalogFilters(t *testing.T) {
	r, _ := setupMenuRouter(t)
	drinksID := createCategory(t, r, "Kopi")
	foodsID := createCategory(t, r, "Camilan")

	w := doRequest(r, "POST", "/admin/menus", menuPayload(drinksID, "Kopi Susu", 25, 30), nil)
	require.Equal(t, 201, w.Code)

	soldOut := menuPayload(drinksID, "Kopi Tubruk", 15, 0)
	soldOut["available"] = false
	w = doRequest(r, "POST", "/admin/menus", soldOut, nil)
	require.Equal(t, 201, w.Code)

	w = doRequest(r, "POST", "/admin/menus", menuPayload(foodsID, "Pisang Goreng", 12, 40), nil)
	require.Equal(t, 201, w.Code)

	w = doRequest(r, "GET", fmt.Sprintf("/menus?category=%d", drinksID), nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Len(t, dataArray(w), 2)

	w = doRequest(r, "GET", fmt.Sprintf("/menus?category=%d&available=true", drinksID), nil, nil)
	assert.Equal(t, 200, w.Code)
	items := dataArray(w)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Kopi Susu", item["name"])
	assert.Equal(t, "Kopi", item["category"].(map[string]interface{})["name"])

	w = doRequest(r, "GET", "/menus?category=abc", nil, nil)
	assert.Equal(t, 400, w.Code)
}
