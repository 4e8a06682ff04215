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

func setupTableRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:tables_ctrl_test?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Table{}, &models.TableSession{}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := controllers.NewTableController(db)

	r.POST("/tables/:table_number/scan", ctrl.ScanTable)
	r.GET("/tables/:table_number/session", ctrl.GetActiveSession)

	admin := r.Group("/admin")
	{
		admin.POST("/tables", ctrl.CreateTable)
		admin.GET("/tables", ctrl.GetAllTables)
		admin.PATCH("/tables/:table_number/status", ctrl.UpdateTableStatus)
		admin.POST("/tables/:table_number/close-session", ctrl.CloseSession)
		admin.DELETE("/tables/:table_number", ctrl.DeleteTable)
	}
	return r, db
}

func createTable(t *testing.T, r *gin.Engine, number int) {
	t.Helper()
	w := doRequest(r, "POST", "/admin/tables", gin.H{"table_number": number, "capacity": 4}, nil)
	require.Equal(t, 201, w.Code)
}

func TestCreateTableValidation(t *testing.T) {
	r, _ := setupTableRouter(t)

	w := doRequest(r, "POST", "/admin/tables", gin.H{"table_number": 11}, nil)
	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "Table created", decodeBody(w)["message"])
	data := dataObject(w)
	assert.Equal(t, "available", data["status"])
	// Kapasitas kosong jatuh ke default 2.
	assert.Equal(t, 2.0, data["capacity"])

	w = doRequest(r, "POST", "/admin/tables", gin.H{"table_number": 11}, nil)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeBody(w)["message"], "already exists")

	w = doRequest(r, "POST", "/admin/tables", gin.H{"table_number": 0}, nil)
	assert.Equal(t, 400, w.Code)

	w = doRequest(r, "POST", "/admin/tables", gin.H{"capacity": 4}, nil)
	assert.Equal(t, 400, w.Code)
}

func TestScanTableReusesActiveSession(t *testing.T) {
	r, _ := setupTableRouter(t)
	createTable(t, r, 12)

	w := doRequest(r, "POST", "/tables/12/scan", nil, nil)
	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "Session opened", decodeBody(w)["message"])
	first := dataObject(w)
	sessionID := first["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "active", first["status"])

	// Scan kedua di meja yang sama tidak membuka sesi baru.
	w = doRequest(r, "POST", "/tables/12/scan", nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Active session", decodeBody(w)["message"])
	assert.Equal(t, sessionID, dataObject(w)["session_id"])

	// Meja ikut berubah jadi occupied.
	w = doRequest(r, "GET", "/admin/tables?status=occupied", nil, nil)
	assert.Equal(t, 200, w.Code)
	numbers := make([]float64, 0)
	for _, it := range dataArray(w) {
		numbers = append(numbers, it.(map[string]interface{})["table_number"].(float64))
	}
	assert.Contains(t, numbers, 12.0)

	w = doRequest(r, "GET", "/tables/12/session", nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, sessionID, dataObject(w)["session_id"])

	w = doRequest(r, "POST", "/tables/99/scan", nil, nil)
	assert.Equal(t, 404, w.Code)
}

func TestCloseSessionFreesTable(t *testing.T) {
	r, db := setupTableRouter(t)
	createTable(t, r, 13)

	w := doRequest(r, "POST", "/tables/13/scan", nil, nil)
	require.Equal(t, 201, w.Code)
	sessionID := dataObject(w)["session_id"].(string)

	w = doRequest(r, "POST", "/admin/tables/13/close-session", nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Session closed", decodeBody(w)["message"])
	data := dataObject(w)
	assert.Equal(t, "closed", data["status"])
	assert.NotNil(t, data["closed_at"])

	var table models.Table
	require.NoError(t, db.Where("table_number = ?", 13).First(&table).Error)
	assert.Equal(t, models.TableStatusAvailable, table.Status)

	// Tidak ada sesi aktif lagi.
	w = doRequest(r, "GET", "/tables/13/session", nil, nil)
	assert.Equal(t, 404, w.Code)

	w = doRequest(r, "POST", "/admin/tables/13/close-session", nil, nil)
	assert.Equal(t, 404, w.Code)

	// Scan berikutnya membuka sesi baru dengan id berbeda.
	w = doRequest(r, "POST", "/tables/13/scan", nil, nil)
	assert.Equal(t, 201, w.Code)
	assert.NotEqual(t, sessionID, dataObject(w)["session_id"])
}

func TestUpdateTableStatusValidation(t *testing.T) {
	r, _ := setupTableRouter(t)
	createTable(t, r, 14)

	w := doRequest(r, "PATCH", "/admin/tables/14/status", gin.H{"status": "occupied"}, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "occupied", dataObject(w)["status"])

	w = doRequest(r, "PATCH", "/admin/tables/14/status", gin.H{"status": "reserved"}, nil)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeBody(w)["message"], "invalid table status")

	w = doRequest(r, "PATCH", "/admin/tables/14/status", gin.H{}, nil)
	assert.Equal(t, 400, w.Code)

	w = doRequest(r, "PATCH", "/admin/tables/abc/status", gin.H{"status": "available"}, nil)
	assert.Equal(t, 400, w.Code)
}

func TestDeleteTable(t *testing.T) {
	r, _ := setupTableRouter(t)
	createTable(t, r, 15)

	w := doRequest(r, "DELETE", "/admin/tables/15", nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 15.0, dataObject(w)["table_number"])

	w = doRequest(r, "DELETE", "/admin/tables/15", nil, nil)
	assert.Equal(t, 404, w.Code)

	w = doRequest(r, "GET", fmt.Sprintf("/tables/%d/session", 15), nil, nil)
	assert.Equal(t, 404, w.Code)
}
