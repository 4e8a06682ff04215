package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

// SalesController membungkus endpoint laporan penjualan untuk dashboard
// admin. Semua angka dihitung AnalyticsService dari bill paid.
type SalesController struct {
	Analytics *services.AnalyticsService
}

func NewSalesController(analytics *services.AnalyticsService) *SalesController {
	return &SalesController{Analytics: analytics}
}

func queryLimit(c *gin.Context, fallback int) int {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return fallback
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// GetStats -> ringkasan revenue/order/rata-rata per periode
func (sc *SalesController) GetStats(c *gin.Context) {
	stats, err := sc.Analytics.Stats(c.Query("period"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales statistics", stats)
}

// GetTopItems -> item terlaris
func (sc *SalesController) GetTopItems(c *gin.Context) {
	items, err := sc.Analytics.TopItems(c.Query("period"), queryLimit(c, 10))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Top selling items", items)
}

// GetLeastItems -> item paling jarang terjual
func (sc *SalesController) GetLeastItems(c *gin.Context) {
	items, err := sc.Analytics.LeastItems(c.Query("period"), queryLimit(c, 10))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Least selling items", items)
}

// GetPeakHours -> jam tersibuk berdasarkan bill paid
func (sc *SalesController) GetPeakHours(c *gin.Context) {
	buckets, err := sc.Analytics.PeakHours(c.Query("period"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Peak hours", buckets)
}

// GetRevenueByHour -> 24 bucket untuk grafik harian
func (sc *SalesController) GetRevenueByHour(c *gin.Context) {
	buckets, err := sc.Analytics.RevenueByHour(c.Query("period"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue by hour", buckets)
}

// GetRevenueByDay -> deret harian untuk grafik tren
func (sc *SalesController) GetRevenueByDay(c *gin.Context) {
	buckets, err := sc.Analytics.RevenueByDay(c.Query("period"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue by day", buckets)
}

// GetRecentSales -> record penjualan terbaru hasil derivasi served
func (sc *SalesController) GetRecentSales(c *gin.Context) {
	records, err := sc.Analytics.RecentSales(queryLimit(c, 20))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent sales", records)
}

// GetNewCustomers -> customer baru vs total di periode
func (sc *SalesController) GetNewCustomers(c *gin.Context) {
	stats, err := sc.Analytics.NewCustomers(c.Query("period"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer statistics", stats)
}

// GetPopularCombos -> pasangan item yang sering dibeli bersama
func (sc *SalesController) GetPopularCombos(c *gin.Context) {
	combos, err := sc.Analytics.PopularCombos(c.Query("period"), queryLimit(c, 10))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Popular combos", combos)
}

// GetGrowth -> perbandingan periode berjalan dengan periode sebelumnya
func (sc *SalesController) GetGrowth(c *gin.Context) {
	growth, err := sc.Analytics.Growth(c.Query("period"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Growth metrics", growth)
}
