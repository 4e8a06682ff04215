package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/config"
	"github.com/yeremiapane/resto-pos/controllers"
	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
)

// SetupRouter merakit seluruh dependency (service + controller) dan
// mendaftarkan route table. Hub event di-inject dari main supaya tidak
// ada state global.
func SetupRouter(db *gorm.DB, hub *events.Hub, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(300, 60).RateLimit())

	// Inisialisasi service
	billingSvc := services.NewBillingService(db, hub, cfg.Location)
	salesRec := services.NewSalesRecorder(db, hub)
	analyticsSvc := services.NewAnalyticsService(db, cfg.Location)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	stockCtrl := controllers.NewStockController(db)
	orderCtrl := controllers.NewOrderController(db, hub, salesRec)
	billingCtrl := controllers.NewBillingController(db, billingSvc)
	salesCtrl := controllers.NewSalesController(analyticsSvc)
	notificationCtrl := controllers.NewNotificationController(db, hub)
	wsCtrl := controllers.NewWSController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (tanpa auth) --
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-category", menuCtrl.GetAllMenus)

	// Scan QR meja -> buka / lanjutkan sesi
	r.POST("/tables/:table_number/scan", tableCtrl.ScanTable)
	r.GET("/tables/:table_number/session", tableCtrl.GetActiveSession)

	// Order dari meja (customer tidak perlu login)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.GET("/orders/session/:session_id", orderCtrl.GetOrdersBySession)
	r.GET("/orders/session/:session_id/bill", orderCtrl.GetSessionBill)

	// Customer minta bill; limiter khusus billing
	payRequest := r.Group("/orders")
	payRequest.Use(middlewares.BillingRateLimiter(), middlewares.LogBillingRequest())
	{
		payRequest.POST("/session/:session_id/pay-request", billingCtrl.RequestPayment)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// ORDERS (chef ikut membaca antrian dan mengubah status masakan)
	staffOrders := auth.Group("/orders")
	staffOrders.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleStaff, models.RoleChef))
	{
		staffOrders.GET("", orderCtrl.GetAllOrders)
		staffOrders.GET("/table/:table_number", orderCtrl.GetOrdersByTable)
		staffOrders.GET("/phone/:phone", orderCtrl.GetOrdersByPhone)
		staffOrders.PATCH("/:order_id", orderCtrl.UpdateOrderStatus)
	}
	auth.DELETE("/orders/:order_id",
		middlewares.RequireRoles(models.RoleAdmin), orderCtrl.DeleteOrder)

	// BILLING (staff/admin)
	billing := auth.Group("/orders")
	billing.Use(
		middlewares.RequireRoles(models.RoleAdmin, models.RoleStaff),
		middlewares.BillingRateLimiter(),
		middlewares.LogBillingRequest(),
	)
	{
		billing.PATCH("/session/:session_id/billing-status", billingCtrl.UpdateBillingStatus)
		billing.GET("/session/:session_id/bill-record", billingCtrl.GetBillBySession)
		billing.GET("/payments", billingCtrl.GetPendingBills)
		billing.GET("/bills", billingCtrl.GetAllBills)
		billing.GET("/bills/phone/:phone", billingCtrl.GetBillsByPhone)
	}

	// SALES ANALYTICS (admin)
	sales := auth.Group("/sales")
	sales.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		sales.GET("/stats", salesCtrl.GetStats)
		sales.GET("/top-items", salesCtrl.GetTopItems)
		sales.GET("/least-items", salesCtrl.GetLeastItems)
		sales.GET("/peak-hours", salesCtrl.GetPeakHours)
		sales.GET("/revenue", salesCtrl.GetRevenueByDay)
		sales.GET("/revenue-by-hour", salesCtrl.GetRevenueByHour)
		sales.GET("/recent", salesCtrl.GetRecentSales)
		sales.GET("/new-customers", salesCtrl.GetNewCustomers)
		sales.GET("/popular-combos", salesCtrl.GetPopularCombos)
		sales.GET("/growth-metrics", salesCtrl.GetGrowth)
	}

	// BACK OFFICE (staff/admin; aksi destruktif khusus admin)
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleStaff))
	{
		// USERS
		admin.GET("/users", middlewares.RequireRoles(models.RoleAdmin), userCtrl.GetAllUsers)
		admin.PATCH("/users/:user_id/role", middlewares.RequireRoles(models.RoleAdmin), userCtrl.UpdateUserRole)
		admin.DELETE("/users/:user_id", middlewares.RequireRoles(models.RoleAdmin), userCtrl.DeleteUser)

		// MENU CATEGORIES
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", middlewares.RequireRoles(models.RoleAdmin), categoryCtrl.DeleteCategory)

		// MENUS + INVENTORY
		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.GET("/menus/low-stock", stockCtrl.GetLowStock)
		admin.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.PATCH("/menus/:menu_id/availability", menuCtrl.SetAvailability)
		admin.PATCH("/menus/:menu_id/stock", stockCtrl.AdjustStock)
		admin.DELETE("/menus/:menu_id", middlewares.RequireRoles(models.RoleAdmin), menuCtrl.DeleteMenu)
		admin.GET("/stock-movements", stockCtrl.GetStockMovements)

		// TABLES
		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.POST("/tables", middlewares.RequireRoles(models.RoleAdmin), tableCtrl.CreateTable)
		admin.PATCH("/tables/:table_number/status", tableCtrl.UpdateTableStatus)
		admin.POST("/tables/:table_number/close-session", tableCtrl.CloseSession)
		admin.DELETE("/tables/:table_number", middlewares.RequireRoles(models.RoleAdmin), tableCtrl.DeleteTable)

		// NOTIFICATIONS
		admin.GET("/notifications", notificationCtrl.GetAllNotifications)
		admin.POST("/notifications", notificationCtrl.CreateNotification)
		admin.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
		admin.DELETE("/notifications/:notif_id", middlewares.RequireRoles(models.RoleAdmin), notificationCtrl.DeleteNotification)
	}

	// WebSocket dashboard; token lewat query string
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", wsCtrl.Handle)
	}

	return r
}
